package env

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	SiteTitle    = "ROUTEGEN_SITE_TITLE"
	PagesPackage = "ROUTEGEN_PAGES_PACKAGE"
	GenDir       = "ROUTEGEN_GEN_DIR"
	PublicPath   = "ROUTEGEN_PUBLIC_PATH"
	DevScript    = "ROUTEGEN_DEV_SCRIPT"
)

// Values holds the variables of one project's .env file. The process
// environment is never modified.
type Values map[string]string

// ReadProjectEnv reads <projectDir>/.env. A missing file yields no values.
func ReadProjectEnv(projectDir string) (Values, error) {
	values, err := godotenv.Read(filepath.Join(projectDir, ".env"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Values{}, nil
		}
		return nil, err
	}
	return Values(values), nil
}

// Lookup returns the trimmed value of key and whether it is set to anything
// other than blanks. A variable set in the process environment wins over
// the file.
func (v Values) Lookup(key string) (string, bool) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value, true
	}
	value := strings.TrimSpace(v[key])
	return value, value != ""
}
