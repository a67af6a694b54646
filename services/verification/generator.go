package verification

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/tech-arch1tect/verifycode/config"
)

type Generator interface {
	Generate() (string, error)
}

// RandomGenerator draws each symbol independently and uniformly from alphabet.
type RandomGenerator struct {
	alphabet []rune
	length   int
}

func NewRandomGenerator(alphabet string, length int) (*RandomGenerator, error) {
	symbols := []rune(alphabet)
	if len(symbols) < 2 {
		return nil, errors.New("alphabet needs at least two symbols")
	}
	if length <= 0 {
		return nil, errors.New("code length must be positive")
	}
	return &RandomGenerator{alphabet: symbols, length: length}, nil
}

func (g *RandomGenerator) Generate() (string, error) {
	max := big.NewInt(int64(len(g.alphabet)))
	code := make([]rune, g.length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random: %w", err)
		}
		code[i] = g.alphabet[n.Int64()]
	}
	return string(code), nil
}

// UUIDGenerator keeps the first length characters of a random UUID. The
// result is biased (the 9th character is always '-', the 15th always '4'),
// so it only exists for compatibility with codes issued by older deployments.
type UUIDGenerator struct {
	length int
}

func NewUUIDGenerator(length int) (*UUIDGenerator, error) {
	if length <= 0 || length > 36 {
		return nil, fmt.Errorf("uuid code length must be between 1 and 36, got %d", length)
	}
	return &UUIDGenerator{length: length}, nil
}

func (g *UUIDGenerator) Generate() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate uuid: %w", err)
	}
	return id.String()[:g.length], nil
}

func NewGenerator(cfg config.VerificationConfig) (Generator, error) {
	switch cfg.Generator {
	case config.GeneratorUUID:
		return NewUUIDGenerator(cfg.CodeLength)
	case config.GeneratorRandom, "":
		return NewRandomGenerator(cfg.Alphabet, cfg.CodeLength)
	default:
		return nil, fmt.Errorf("unsupported code generator: %s", cfg.Generator)
	}
}
