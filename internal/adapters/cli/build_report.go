package cli

import (
	"fmt"
	"io"
	"time"
)

type BuildStep struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
	Success   bool
	Error     string
}

type reportOutput interface {
	Green(text string) string
	Yellow(text string) string
	Red(text string) string
	Gray(text string) string
	Writer() io.Writer
	ErrWriter() io.Writer
}

// BuildIssue is a warning or error attached to a source file, route or
// build stage.
type BuildIssue struct {
	Subject string
	Message string
	Details []string
}

type BuildReport struct {
	out         reportOutput
	steps       []*BuildStep
	warnings    []BuildIssue
	errors      []BuildIssue
	startTime   time.Time
	routeCount  int
	outputDir   string
	hasFailures bool
}

func NewBuildReport(out reportOutput, outputDir string) *BuildReport {
	return &BuildReport{
		out:       out,
		steps:     make([]*BuildStep, 0),
		warnings:  make([]BuildIssue, 0),
		errors:    make([]BuildIssue, 0),
		startTime: time.Now(),
		outputDir: outputDir,
	}
}

func (r *BuildReport) SetRouteCount(count int) {
	r.routeCount = count
}

func (r *BuildReport) StartStep(name string) *BuildStep {
	step := &BuildStep{
		Name:      name,
		StartTime: time.Now(),
	}
	r.steps = append(r.steps, step)
	return step
}

func (r *BuildReport) EndStep(step *BuildStep, success bool, err string) {
	step.EndTime = time.Now()
	step.Success = success
	step.Error = err
	if !success {
		r.hasFailures = true
	}
}

func (r *BuildReport) AddWarning(subject string, message string, details []string) {
	r.warnings = append(r.warnings, BuildIssue{
		Subject: subject,
		Message: message,
		Details: details,
	})
}

func (r *BuildReport) AddError(subject string, message string, details []string) {
	r.errors = append(r.errors, BuildIssue{
		Subject: subject,
		Message: message,
		Details: details,
	})
	r.hasFailures = true
}

func (r *BuildReport) Warnings() []BuildIssue {
	return r.warnings
}

func (r *BuildReport) Errors() []BuildIssue {
	return r.errors
}

func (r *BuildReport) Steps() []*BuildStep {
	return r.steps
}

func (r *BuildReport) Render() {
	duration := time.Since(r.startTime)

	if len(r.errors) == 0 && len(r.warnings) == 0 {
		r.renderMinimal(duration)
	} else {
		r.renderVerbose(duration)
	}
}

func (r *BuildReport) renderMinimal(duration time.Duration) {
	w := r.out.Writer()
	fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"%d routes found\n", r.routeCount)

	failed := make([]string, 0, len(r.steps))
	for _, step := range r.steps {
		if !step.Success {
			failed = append(failed, "  "+r.out.Red("✗ ")+step.Name)
		}
	}

	if len(failed) == 0 {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	} else {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failed steps:")
		for _, line := range failed {
			fmt.Fprintln(w, line)
		}
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderVerbose(duration time.Duration) {
	w := r.out.Writer()
	fmt.Fprintf(w, "  %d routes found\n", r.routeCount)

	fmt.Fprintln(w)
	for _, step := range r.steps {
		status := r.out.Green("✓")
		if !step.Success {
			status = r.out.Red("✗")
		}
		fmt.Fprintf(w, "  %s %s\n", status, step.Name)
	}

	if len(r.errors) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(r.out.ErrWriter(), "  "+r.out.Red("✗ ")+"Errors (%d):\n", len(r.errors))
		r.renderIssues(r.errors)
	}

	if len(r.warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  "+r.out.Yellow("⚠ ")+"Warnings (%d):\n", len(r.warnings))
		r.renderIssues(r.warnings)
	}

	fmt.Fprintln(w)
	if len(r.errors) > 0 {
		fmt.Fprintf(r.out.ErrWriter(), "  %s\n", r.out.Red(fmt.Sprintf("Build failed after %s", formatDuration(duration))))
	} else {
		fmt.Fprintf(w, "  "+r.out.Green("✓ ")+"Build complete in %s\n", formatDuration(duration))
	}

	if r.outputDir != "" {
		fmt.Fprintf(w, "\n  %s\n", r.out.Gray("Output: "+r.outputDir))
	}
}

func (r *BuildReport) renderIssues(issues []BuildIssue) {
	w := r.out.Writer()
	for _, issue := range issues {
		fmt.Fprintf(w, "  %s %s\n", r.out.Red("✗"), issue.Subject)
		fmt.Fprintf(w, "    %s\n", issue.Message)

		for _, detail := range deduplicateStrings(issue.Details) {
			fmt.Fprintf(w, "      • %s\n", detail)
		}
	}
}

func (r *BuildReport) HasFailures() bool {
	return r.hasFailures
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d)/float64(time.Millisecond))
	}
	return fmt.Sprintf("%.1fs", float64(d)/float64(time.Second))
}

// deduplicateStrings collapses repeated details, keeping first-seen order.
func deduplicateStrings(items []string) []string {
	if len(items) <= 1 {
		return items
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(items))
	for _, item := range items {
		if counts[item] == 0 {
			order = append(order, item)
		}
		counts[item]++
	}

	result := make([]string, 0, len(order))
	for _, item := range order {
		if counts[item] > 1 {
			result = append(result, fmt.Sprintf("%s (%d occurrences)", item, counts[item]))
		} else {
			result = append(result, item)
		}
	}
	return result
}
