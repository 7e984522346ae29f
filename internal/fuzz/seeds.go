package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

var inlineSeeds = []string{
	"",
	"int main(void) { return 0; }\n",
	"#include <stdio.h>\n#define MAX 10\nint x = MAX;\n",
	"#define SQ(x) \\\n  ((x) * (x))\nint y = SQ(3);\n",
	"char *s = \"a \\\"quoted\\\" string\"; char c = '\\'';\n",
	"double d = 1.5e-3; long h = 0x1Fu; int o = 0755; int bad = 09;\n",
	"unsigned long long big = 99999999999999999999999;\n",
	"int $gcc_ext = 1; @ ` \x7f\n",
	"\"unterminated\nint after;\n",
	"\xef\xbb\xbfint bom;\r\nint crlf;\r\n",
	"   # pragma once\n\t#  if 0\n#endif\n",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range inlineSeeds {
		f.Add([]byte(s))
	}
	addTestdataSeeds(f)
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "driver", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все исходники на C
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".c", ".h", ".cpp":
		default:
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
}

func clampSeed(src []byte) []byte {
	if len(src) > maxSeedBytes {
		src = src[:maxSeedBytes]
	}
	return append([]byte(nil), src...)
}
