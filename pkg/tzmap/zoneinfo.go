package tzmap

import (
	"archive/zip"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// The standard library can open any single zone but cannot list them, so
// enumeration walks the same sources the runtime consults: $ZONEINFO,
// the platform zoneinfo directories, and finally the zoneinfo.zip
// shipped with the Go toolchain.
var zoneDirs = []string{
	"/usr/share/zoneinfo",
	"/usr/share/lib/zoneinfo",
	"/usr/lib/locale/TZ",
	"/etc/zoneinfo",
}

var (
	enumOnce  sync.Once
	enumCache []string
)

// availableZones lists the IANA zones known to this host, sorted. The
// result is cached for the process lifetime; the tz database does not
// change underneath a running program in any way this package cares
// about.
func availableZones() []string {
	enumOnce.Do(func() {
		dirs := zoneDirs
		if env := os.Getenv("ZONEINFO"); env != "" {
			dirs = append([]string{env}, dirs...)
		}
		for _, dir := range dirs {
			var names []string
			if strings.HasSuffix(dir, ".zip") {
				names = zonesFromZip(dir)
			} else {
				names = zonesFromDir(dir)
			}
			if len(names) > 0 {
				enumCache = names
				return
			}
		}
		enumCache = zonesFromZip(filepath.Join(runtime.GOROOT(), "lib", "time", "zoneinfo.zip"))
	})
	return enumCache
}

// zonesFromDir walks a zoneinfo directory tree. Zone names start with an
// uppercase letter ("America/New_York", "UTC"); that convention filters
// out auxiliary files like zone.tab and the posix/, right/, etc.
// variant subtrees.
func zonesFromDir(dir string) []string {
	var names []string
	root := os.DirFS(dir)
	fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if path == "." {
			return nil
		}
		if !zoneNameLike(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	sort.Strings(names)
	return names
}

// zonesFromZip lists zone entries in a zoneinfo.zip archive.
func zonesFromZip(path string) []string {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil
	}
	defer r.Close()
	var names []string
	for _, f := range r.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		if zoneNameLike(f.Name) {
			names = append(names, f.Name)
		}
	}
	sort.Strings(names)
	return names
}

// zoneNameLike reports whether every path component starts with an
// uppercase letter, the naming convention for real zone entries.
func zoneNameLike(path string) bool {
	for _, part := range strings.Split(path, "/") {
		if part == "" || part[0] < 'A' || part[0] > 'Z' {
			return false
		}
	}
	return true
}
