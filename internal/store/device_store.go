package store

import (
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"servicepro/internal/domain"
)

const deviceFilename = "device.json"

type deviceFile struct {
	DeviceID domain.DeviceID `json:"device_id"`
}

// DeviceFileStore keeps the per-installation device id. The id is generated
// on first use and never changes afterwards.
type DeviceFileStore struct {
	dir string
	mu  sync.Mutex
	id  domain.DeviceID
}

// NewDeviceFileStore returns a DeviceFileStore rooted at dir.
func NewDeviceFileStore(dir string) *DeviceFileStore {
	return &DeviceFileStore{dir: dir}
}

// DeviceID returns the stored id, creating it if needed.
func (s *DeviceFileStore) DeviceID() (domain.DeviceID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.id != "" {
		return s.id, nil
	}

	path := filepath.Join(s.dir, deviceFilename)
	var f deviceFile
	if err := readJSON(path, &f); err != nil {
		return "", err
	}
	if f.DeviceID == "" {
		f.DeviceID = domain.DeviceID(uuid.NewString())
		if err := writeJSON(path, f, 0o600); err != nil {
			return "", err
		}
	}
	s.id = f.DeviceID
	return s.id, nil
}

// Compile-time assertion that DeviceFileStore implements domain.DeviceStore.
var _ domain.DeviceStore = (*DeviceFileStore)(nil)
