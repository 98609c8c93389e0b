package wechatdb

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/datasource"
	"github.com/whoamihappyhacking/chatlens/internal/wechatdb/repository"
)

// DB 归档库的只读访问入口
type DB struct {
	path string
	ds   datasource.DataSource
	repo *repository.Repository
}

func New(path string, loc *time.Location) (*DB, error) {
	ds, err := datasource.New(path, loc)
	if err != nil {
		log.Err(err).Str("path", path).Msg("open archive failed")
		return nil, err
	}
	return &DB{
		path: path,
		ds:   ds,
		repo: repository.New(ds),
	}, nil
}

func (w *DB) Path() string {
	return w.path
}

func (w *DB) GetRepository() *repository.Repository {
	return w.repo
}

// LastModified 数据版本（freshness token）
func (w *DB) LastModified() (int64, error) {
	return w.ds.LastModified()
}

func (w *DB) Fingerprint() (string, error) {
	return w.ds.Fingerprint()
}

func (w *DB) Close() error {
	if w.ds != nil {
		return w.ds.Close()
	}
	return nil
}
