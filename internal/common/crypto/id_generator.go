package crypto

import (
	"strings"

	"github.com/google/uuid"
)

type IDGenerator interface {
	NewID() (string, error)
}

type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) NewID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

const canonicalIDLength = 36

// ValidateID reports whether candidate is a canonical 8-4-4-4-12 hex identifier.
// It checks format only, never existence.
func ValidateID(candidate string) bool {
	if len(candidate) != canonicalIDLength {
		return false
	}
	for i, r := range candidate {
		switch i {
		case 8, 13, 18, 23:
			if r != '-' {
				return false
			}
		default:
			if !isHex(r) {
				return false
			}
		}
	}
	_, err := uuid.Parse(strings.ToLower(candidate))
	return err == nil
}

func isHex(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

// CanonicalID lowercases a structurally valid id so every store compares ids the same way.
func CanonicalID(id string) string {
	return strings.ToLower(id)
}
