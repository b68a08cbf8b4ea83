package blob

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ProfileImagePrefix is the key prefix under which clergy portraits live.
const ProfileImagePrefix = "clergy/"

var imageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// ProfileImageKey returns a fresh key for a clergy portrait. Keys are never
// reused so replacing an image never collides with the create-only Put.
func ProfileImageKey(clergyID string) string {
	return fmt.Sprintf("%s%s/profile-%s", ProfileImagePrefix, clergyID, uuid.NewString())
}

// ClergyIDFromKey extracts the clergy id from a profile image key.
func ClergyIDFromKey(key string) (string, bool) {
	rest, ok := strings.CutPrefix(key, ProfileImagePrefix)
	if !ok {
		return "", false
	}
	id, file, ok := strings.Cut(rest, "/")
	if !ok || id == "" || !strings.HasPrefix(file, "profile-") {
		return "", false
	}
	return id, true
}

// IsImageContentType reports whether contentType is an accepted portrait format.
func IsImageContentType(contentType string) bool {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	_, ok := imageTypes[ct]
	return ok
}
