package record

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// idHashLen is the number of hash bytes kept for content-derived IDs.
// 8 bytes (16 hex chars) keeps IDs short while making collisions between
// distinct papers vanishingly unlikely for personal-scale libraries.
const idHashLen = 8

// NewID derives a stable opaque identifier for a record from its title,
// first author, and year. Records with no usable metadata get a random
// UUID instead, so every record still receives a unique ID.
func NewID(r *Record) string {
	seed := idSeed(r)
	if seed == "" {
		return uuid.NewString()
	}

	sum := blake2b.Sum256([]byte(seed))
	return fmt.Sprintf("%x", sum[:idHashLen])
}

// idSeed builds the normalized hash input for NewID.
func idSeed(r *Record) string {
	var parts []string
	if t := strings.ToLower(strings.TrimSpace(r.Title)); t != "" {
		parts = append(parts, t)
	}
	if a := strings.ToLower(strings.TrimSpace(r.FirstAuthor())); a != "" {
		parts = append(parts, a)
	}
	if r.Year != 0 {
		parts = append(parts, fmt.Sprintf("%d", r.Year))
	}
	return strings.Join(parts, "|")
}

// UniqueID returns id if it does not collide with any existing record,
// otherwise appends -2, -3, ... until it is unique.
func UniqueID(existing []Record, id string) string {
	taken := make(map[string]bool, len(existing))
	for _, r := range existing {
		taken[r.ID] = true
	}

	if !taken[id] {
		return id
	}
	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s-%d", id, i)
		if !taken[candidate] {
			return candidate
		}
	}
}
