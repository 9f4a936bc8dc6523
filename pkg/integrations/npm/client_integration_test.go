//go:build integration

package npm

import (
	"context"
	"testing"
	"time"
)

func TestRepositoryURL_Integration(t *testing.T) {
	client := NewClient(Options{})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tests := []struct {
		name    string
		pkg     string
		want    string
		wantErr bool
	}{
		{"express", "express", "https://github.com/expressjs/express", false},
		{"scoped", "@babel/core", "https://github.com/babel/babel", false},
		{"nonexistent", "this-package-should-not-exist-12345", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.RepositoryURL(ctx, tt.pkg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("RepositoryURL(%q) error = %v, wantErr %v", tt.pkg, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("RepositoryURL(%q) = %q, want %q", tt.pkg, got, tt.want)
			}
		})
	}
}
