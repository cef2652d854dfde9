package memexec

import "os"

func defaultWriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}
