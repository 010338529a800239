package sources

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
)

func TestDirDescribe(t *testing.T) {
	root := t.TempDir()
	depDir := filepath.Join(root, "local")
	if err := os.MkdirAll(depDir, 0o755); err != nil {
		t.Fatal(err)
	}
	doc := `name: local
version: 1.2.0
features:
  - strict-nullability
`
	if err := os.WriteFile(filepath.Join(depDir, "project.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	d := &Dir{Root: root}
	desc, err := d.Describe(context.Background(), source.PackageID{
		Name:   "local",
		Source: manifest.SourcePath,
		Ref:    "local",
	})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if !desc.HasFeature("strict-nullability") {
		t.Errorf("features = %v", desc.Features)
	}
}

func TestDirDescribe_MissingManifest(t *testing.T) {
	d := &Dir{Root: t.TempDir()}
	_, err := d.Describe(context.Background(), source.PackageID{Name: "ghost", Source: manifest.SourcePath, Ref: "ghost"})
	if err == nil {
		t.Fatal("missing dependency manifest should fail")
	}
}

func TestStaticDescribe(t *testing.T) {
	s := &Static{}
	desc, err := s.Describe(context.Background(), source.PackageID{Name: "srv", Source: manifest.SourceGit})
	if err != nil {
		t.Fatalf("Describe: %v", err)
	}
	if desc.HasFeature("anything") {
		t.Error("empty Static should declare no features")
	}
}
