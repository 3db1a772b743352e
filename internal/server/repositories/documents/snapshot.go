package documents

import (
	"errors"
	"os"
	"path/filepath"
)

func loadSnapshot(path string) (map[string]map[string]collectionData, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	raw, err := decodeData(b)
	if err != nil {
		return nil, err
	}

	snap := make(map[string]map[string]collectionData, len(raw))
	for userID, uv := range raw {
		colls, _ := uv.(map[string]any)
		snap[userID] = make(map[string]collectionData, len(colls))
		for coll, cv := range colls {
			docs, _ := cv.(map[string]any)
			cd := make(collectionData, len(docs))
			for id, dv := range docs {
				fields, _ := dv.(map[string]any)
				if fields == nil {
					fields = map[string]any{}
				}
				cd[id] = fields
			}
			snap[userID][coll] = cd
		}
	}
	return snap, nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}
