package core

type PageEntry struct {
	FQCN  string
	Route string
}

// ScanResult is what a source scan produces: at most one custom app entry
// point and the page entries in discovery order.
type ScanResult struct {
	AppFQCN string
	HasApp  bool
	Pages   []PageEntry
}

func NewScanResult() *ScanResult {
	return &ScanResult{}
}

func (r *ScanResult) WithApp(fqcn string) *ScanResult {
	r.AppFQCN = fqcn
	r.HasApp = true
	return r
}

func (r *ScanResult) AddPage(fqcn, route string) *ScanResult {
	r.Pages = append(r.Pages, PageEntry{FQCN: fqcn, Route: route})
	return r
}

// Merge folds other into r. A later app entry point replaces an earlier one.
func (r *ScanResult) Merge(other ScanResult) {
	if other.HasApp {
		r.AppFQCN = other.AppFQCN
		r.HasApp = true
	}
	r.Pages = append(r.Pages, other.Pages...)
}
