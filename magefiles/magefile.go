//go:build mage

// Package main contains Mage build targets for pubmed-digest developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "pubmed-digest"
	cmdPkg  = "./cmd/pubmed-digest"
	dbFile  = "pubmed-digest.db"
)

// projectDirs lists the local directories a deployment expects.
var projectDirs = []string{
	".secrets",
	binDir,
}

// Default is the target run by a bare "mage".
var Default = Build

// Init creates the working directories and a skeleton config file.
func Init() error {
	for _, dir := range projectDirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		fmt.Println("  ", dir)
	}

	const cfgName = "pubmed-digest.yaml"
	if _, err := os.Stat(cfgName); os.IsNotExist(err) {
		skeleton := `# pubmed-digest configuration
pubmed:
  tool: pubmed-digest
  window_days: 7
summarizer:
  model: claude-sonnet-4-5-20250929
mail:
  host: ""
  port: 587
  from: ""
run:
  term_delay: 1s
schedule:
  weekday: Monday
  hour: 8
`
		if err := os.WriteFile(cfgName, []byte(skeleton), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", cfgName, err)
		}
		fmt.Println("  ", cfgName)
	}
	fmt.Println("Project initialized. Put your Anthropic key in .secrets/anthropic-api-key.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	// go-sqlite3 needs cgo.
	env := map[string]string{"CGO_ENABLED": "1"}
	if err := sh.RunWithV(env, "go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Lint runs go vet.
func Lint() error {
	return sh.RunV("go", "vet", "./...")
}

// Check runs Lint and Test.
func Check() {
	mg.SerialDeps(Lint, Test)
}

// Install builds and copies the binary to GOPATH/bin.
func Install() error {
	mg.Deps(Build)
	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}
	return sh.Copy(filepath.Join(gopath, "bin", binName), filepath.Join(binDir, binName))
}

// Clean removes build output. Pass CLEAN_DB=1 to delete the local database too.
func Clean() error {
	if err := sh.Rm(binDir); err != nil {
		return err
	}
	if os.Getenv("CLEAN_DB") == "1" {
		for _, f := range []string{dbFile, dbFile + "-wal", dbFile + "-shm"} {
			if err := sh.Rm(f); err != nil {
				return err
			}
		}
	}
	return nil
}

// Stats prints non-blank Go line counts for production and test files.
func Stats() error {
	var prod, tests int
	err := filepath.Walk(".", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if strings.HasPrefix(info.Name(), "_") || (info.Name() != "." && strings.HasPrefix(info.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		n := countNonBlank(data)
		if strings.HasSuffix(path, "_test.go") {
			tests += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", tests)
	return nil
}

func countNonBlank(data []byte) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n
}
