package dbm

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type fileFingerprint struct {
	group string
	rel   string
	size  int64
	mod   int64
}

// collect 收集分组下文件（及 -wal 旁路文件）的大小与修改时间，按 group/rel 排序
func (d *DBManager) collect(names ...string) ([]fileFingerprint, error) {
	entries := make([]fileFingerprint, 0)

	for _, name := range names {
		paths, err := d.GetDBPath(name)
		if err != nil {
			// 文件缺失视为空分组
			if strings.Contains(err.Error(), "db file not found") {
				continue
			}
			return nil, err
		}

		for _, p := range paths {
			for _, candidate := range []string{p, p + "-wal"} {
				info, statErr := os.Stat(candidate)
				if statErr != nil {
					if os.IsNotExist(statErr) {
						continue
					}
					return nil, statErr
				}

				rel := candidate
				if relPath, relErr := filepath.Rel(d.path, candidate); relErr == nil {
					rel = relPath
				}
				rel = filepath.ToSlash(rel)

				entries = append(entries, fileFingerprint{
					group: name,
					rel:   rel,
					size:  info.Size(),
					mod:   info.ModTime().UnixNano(),
				})
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].group == entries[j].group {
			return entries[i].rel < entries[j].rel
		}
		return entries[i].group < entries[j].group
	})
	return entries, nil
}

// FingerprintForGroups calculates a stable fingerprint for the provided file groups.
// It hashes size and modification timestamp of every file in the groups. If none
// of the requested groups contain files, an empty string is returned without error.
func (d *DBManager) FingerprintForGroups(names ...string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}

	entries, err := d.collect(names...)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	hasher := sha256.New()
	for _, e := range entries {
		fmt.Fprintf(hasher, "%s|%s|%d|%d;", e.group, e.rel, e.size, e.mod)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// LastModifiedForGroups returns the newest modification time (UnixNano) among the
// files of the groups, or 0 when no file exists.
func (d *DBManager) LastModifiedForGroups(names ...string) (int64, error) {
	entries, err := d.collect(names...)
	if err != nil {
		return 0, err
	}
	var latest int64
	for _, e := range entries {
		if e.mod > latest {
			latest = e.mod
		}
	}
	return latest, nil
}
