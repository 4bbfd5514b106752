package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/shashiranjanraj/devburger/config"
	"github.com/shashiranjanraj/devburger/pkg/logger"
)

// ─── Manager ──────────────────────────────────────────────────────────────────

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk = "local"
)

// Connect boots every configured disk. The local disk always exists; s3 and
// minio are added when their endpoint or bucket is configured. It fails only
// when the disk chosen by STORAGE_DISK cannot be booted.
func Connect(ctx context.Context) error {
	RegisterDisk("local", NewLocalDisk(config.StorageLocalRoot()))

	if config.StorageS3Bucket() != "" {
		if d, err := newS3Disk(ctx); err != nil {
			logger.Warn("storage: s3 disk disabled", "error", err)
		} else {
			RegisterDisk("s3", d)
		}
	}

	if config.MinioEndpoint() != "" {
		if d, err := newMinioDisk(ctx); err != nil {
			logger.Warn("storage: minio disk disabled", "error", err)
		} else {
			RegisterDisk("minio", d)
		}
	}

	name := config.StorageDefault()
	if _, err := Use(name); err != nil {
		return err
	}

	managerMu.Lock()
	defaultDisk = name
	managerMu.Unlock()
	return nil
}

// Use returns the named disk.
func Use(name string) (Disk, error) {
	managerMu.RLock()
	d, ok := disks[name]
	managerMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("storage: disk %q is not configured", name)
	}
	return d, nil
}

// Default returns the disk selected by STORAGE_DISK. Connect must have run.
func Default() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()

	d, err := Use(name)
	if err != nil {
		panic(err)
	}
	return d
}

// RegisterDisk plugs in a Disk implementation under name.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	disks[name] = d
	managerMu.Unlock()
}
