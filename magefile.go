//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binary  = "deeptranslate"
	mainPkg = "./cmd/deeptranslate"
)

// Default target to run when none is specified
var Default = Build

// Build builds the binary with Tesseract OCR support (needs libtesseract)
func Build() error {
	fmt.Println("Building", binary)
	return sh.RunV("go", "build", "-o", binary, mainPkg)
}

// BuildNoTesseract builds the binary without cgo Tesseract bindings. Only
// the vision and gemini OCR engines are available.
func BuildNoTesseract() error {
	fmt.Println("Building", binary, "without Tesseract")
	return sh.RunV("go", "build", "-tags", "notesseract", "-o", binary, mainPkg)
}

// Test runs all tests
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// TestNoTesseract runs all tests without the Tesseract bindings
func TestNoTesseract() error {
	return sh.RunV("go", "test", "-tags", "notesseract", "./...")
}

// Vet runs go vet
func Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Install installs the binary into GOPATH/bin
func Install() error {
	mg.Deps(Build)

	gopath, err := sh.Output("go", "env", "GOPATH")
	if err != nil {
		return err
	}

	target := filepath.Join(gopath, "bin", binary)
	fmt.Println("Installing to", target)
	return sh.Copy(target, binary)
}

// Clean removes build artifacts
func Clean() error {
	return os.RemoveAll(binary)
}
