/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
)

// DirCache is an httpcache.Cache keeping one file per key under a directory,
// so successive CLI invocations share a session.
type DirCache struct {
	dir string
}

func NewDirCache(dir string) (*DirCache, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("store.dircache: unable to create %v: %w", dir, err)
	}
	return &DirCache{dir: dir}, nil
}

func (c *DirCache) path(key string) string {
	return filepath.Join(c.dir, url.PathEscape(key)+".json")
}

func (c *DirCache) Get(key string) ([]byte, bool) {
	data, err := os.ReadFile(c.path(key))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("store.dircache.get: %v: %v", key, err)
		}
		return nil, false
	}
	return data, true
}

// Set writes via a temp file and rename so readers never see a partial blob.
func (c *DirCache) Set(key string, data []byte) {
	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		log.Printf("store.dircache.set: %v: %v", key, err)
		return
	}
	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), c.path(key))
	}
	if err != nil {
		os.Remove(tmp.Name())
		log.Printf("store.dircache.set: %v: %v", key, err)
	}
}

func (c *DirCache) Delete(key string) {
	err := os.Remove(c.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("store.dircache.delete: %v: %v", key, err)
	}
}
