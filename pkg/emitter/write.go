package emitter

import (
	"os"
	"path/filepath"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
)

// WriteFile emits vehicles and replaces the artifact at path. The content is
// written to a temporary file in the same directory and renamed over the
// target, so readers see either the previous artifact or the new one.
func WriteFile(path string, vehicles []catalogs.Vehicle, opts ...Option) error {
	data, err := Emit(vehicles, opts...)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

// WriteAtomic replaces the file at path with data via a temporary file and
// a rename. Missing parent directories are created.
func WriteAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("write", tmpName, err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return errors.WrapIO("sync", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		return errors.WrapIO("close", tmpName, err)
	}
	if err = os.Chmod(tmpName, constants.FilePermissions); err != nil {
		return errors.WrapIO("chmod", tmpName, err)
	}
	if err = os.Rename(tmpName, path); err != nil {
		return errors.WrapIO("rename", path, err)
	}
	return nil
}
