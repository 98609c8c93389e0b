package dbm

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// DBManager 管理数据目录下按分组登记的数据库文件
type DBManager struct {
	path   string
	groups map[string][]string
}

// NewDBManager groups 为 分组名 -> 相对 path 的文件名列表
func NewDBManager(path string, groups map[string][]string) *DBManager {
	g := make(map[string][]string, len(groups))
	for name, files := range groups {
		g[name] = append([]string(nil), files...)
	}
	return &DBManager{path: path, groups: g}
}

// Path 数据目录
func (d *DBManager) Path() string {
	return d.path
}

// Groups 已登记的分组名（有序）
func (d *DBManager) Groups() []string {
	names := make([]string, 0, len(d.groups))
	for name := range d.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetDBPath 返回分组下实际存在的文件路径
func (d *DBManager) GetDBPath(name string) ([]string, error) {
	files, ok := d.groups[name]
	if !ok {
		return nil, fmt.Errorf("unknown db group: %s", name)
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		p := filepath.Join(d.path, f)
		if _, err := os.Stat(p); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		paths = append(paths, p)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("db file not found: %s", name)
	}
	return paths, nil
}
