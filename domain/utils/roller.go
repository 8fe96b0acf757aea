package utils

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
	"math/rand"
	"sync"

	"liarsdice/domain/entities"
)

// CryptoRoller rolls dice from crypto/rand. Used for live games.
type CryptoRoller struct{}

func NewCryptoRoller() *CryptoRoller {
	return &CryptoRoller{}
}

func (r *CryptoRoller) RollDie() int {
	n, err := crand.Int(crand.Reader, big.NewInt(entities.MaxFace))
	if err != nil {
		// crypto/rand only fails when the OS entropy source is broken
		panic(fmt.Sprintf("failed to read random die: %v", err))
	}
	return int(n.Int64()) + entities.MinFace
}

// SeededRoller is a reproducible roller for simulations and tests
type SeededRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSeededRoller(seed int64) *SeededRoller {
	return &SeededRoller{rng: rand.New(rand.NewSource(seed))}
}

func (r *SeededRoller) RollDie() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(entities.MaxFace) + entities.MinFace
}

// NewSeed returns a high entropy seed for a SeededRoller
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
