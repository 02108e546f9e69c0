// Package golden maps inputs to their expected-output files and reads and
// writes those files.
package golden

import (
	"os"
	"path/filepath"
	"strings"
)

// InputExt is the extension of the tool's input files.
const InputExt = ".dex"

// Dir is the directory under the data root holding expected outputs.
const Dir = "expected"

// Name returns the golden file name for an input basename under caseName.
// Exactly one trailing InputExt is replaced by "."+caseName; a basename
// without that extension keeps its full name and gains the suffix.
//
//	Name("hello.dex", "map") == "hello.map"
//	Name("a.dex.dex", "asm") == "a.dex.asm"
//	Name("README", "asm")    == "README.asm"
func Name(inputBase, caseName string) string {
	return strings.TrimSuffix(inputBase, InputExt) + "." + caseName
}

// Path returns the golden file path for inputPath under caseName.
func Path(root, inputPath, caseName string) string {
	return filepath.Join(root, Dir, Name(filepath.Base(inputPath), caseName))
}

// Read returns the golden file contents.
func Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Write replaces the golden file with data, creating its directory if needed.
func Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
