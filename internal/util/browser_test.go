package util

import "testing"

func TestOpeners(t *testing.T) {
	tests := []struct {
		name  string
		goos  string
		first string
		count int
	}{
		{"Windows 先 rundll32", "windows", "rundll32", 2},
		{"macOS 使用 open", "darwin", "open", 1},
		{"Linux 先 xdg-open", "linux", "xdg-open", 3},
		{"未知平台按 Linux 处理", "plan9", "xdg-open", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := openers(tt.goos, "http://localhost:8080")
			if len(got) != tt.count {
				t.Fatalf("len=%d want %d", len(got), tt.count)
			}
			if got[0][0] != tt.first {
				t.Fatalf("first=%s want %s", got[0][0], tt.first)
			}
			for _, argv := range got {
				if argv[len(argv)-1] != "http://localhost:8080" {
					t.Fatalf("url not last arg: %v", argv)
				}
			}
		})
	}
}
