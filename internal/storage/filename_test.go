package storage

import (
	"testing"
	"time"
)

func TestSecureFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{`..\windows\system32.dll`, "windows_system32.dll"},
		{"i contain cool \xfcml\xe4uts.txt", "i_contain_cool_mluts.txt"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"<script>.txt", "script.txt"},
		{"...", ""},
		{"report.PDF", "report.PDF"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SecureFilename(tt.in); got != tt.want {
				t.Errorf("SecureFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAllowedFile(t *testing.T) {
	allowed := []string{"pdf", "txt"}
	tests := []struct {
		name string
		want bool
	}{
		{"a.pdf", true},
		{"a.PDF", true},
		{"archive.tar.txt", true},
		{"a.exe", false},
		{"noext", false},
		{"trailing.", false},
	}
	for _, tt := range tests {
		if got := AllowedFile(tt.name, allowed); got != tt.want {
			t.Errorf("AllowedFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestTimestampedName(t *testing.T) {
	now := time.Date(2023, 12, 31, 23, 59, 1, 0, time.UTC)
	tests := map[string]string{
		"a.txt":       "a_20231231_235901.txt",
		"a.tar.gz":    "a.tar_20231231_235901.gz",
		"noextension": "noextension_20231231_235901",
	}
	for in, want := range tests {
		if got := timestampedName(in, now); got != want {
			t.Errorf("timestampedName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormaliseEndpoint(t *testing.T) {
	tests := []struct {
		in           string
		wantEndpoint string
		wantSecure   bool
		wantErr      bool
	}{
		{"minio:9000", "minio:9000", false, false},
		{"http://minio:9000", "minio:9000", false, false},
		{"https://minio:9000", "minio:9000", true, false},
		{"http://minio:9000/", "minio:9000", false, false},
		{"http://minio:9000/foo", "", false, true},
		{"", "", false, true},
	}

	for _, tt := range tests {
		ep, secure, err := normaliseEndpoint(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("expected error for input %q", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", tt.in, err)
		}
		if ep != tt.wantEndpoint || secure != tt.wantSecure {
			t.Fatalf("normaliseEndpoint(%q) = (%q,%v), want (%q,%v)", tt.in, ep, secure, tt.wantEndpoint, tt.wantSecure)
		}
	}
}
