package lockfile

import (
	"path/filepath"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/emenda-labs/capgrade/core/manifest"
	"github.com/emenda-labs/capgrade/core/source"
)

func TestFromResolutionWriteRead(t *testing.T) {
	v := semver.MustParse("2.3.1")
	resolution := map[string]source.PackageID{
		"foo":   {Name: "foo", Version: v, Source: manifest.SourceHosted},
		"local": {Name: "local", Source: manifest.SourcePath, Ref: "../local"},
	}

	path := filepath.Join(t.TempDir(), "project.lock.yaml")
	if err := FromResolution(resolution).Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}

	l, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if l.Version != FormatVersion {
		t.Errorf("Version = %d", l.Version)
	}
	if got := l.Packages["foo"]; got.Version != "2.3.1" || got.Source != "hosted" {
		t.Errorf("foo = %+v", got)
	}
	if got := l.Packages["local"]; got.Version != "" || got.Source != "path" || got.Ref != "../local" {
		t.Errorf("local = %+v", got)
	}
}
