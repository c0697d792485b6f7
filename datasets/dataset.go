// Package datasets implements the partitioning helpers shared by the concrete
// dataset packages.
package datasets

import (
	"math"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Mode selects which partition of a dataset is assembled.
type Mode string

const (
	ModeTrain      Mode = "train"
	ModeValidation Mode = "val"
	ModeTest       Mode = "test"
)

// ParseMode validates a partition mode string. "validation" is accepted as an
// alias for "val".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "train":
		return ModeTrain, nil
	case "val", "validation":
		return ModeValidation, nil
	case "test":
		return ModeTest, nil
	}
	return "", errors.Errorf("mode must be 'train', 'val', or 'test', got %q", s)
}

// BaseName strips the directory and extension from a file name. It is the join
// key between an RGB file and its spectral counterparts.
func BaseName(file string) string {
	file = filepath.Base(file)
	return strings.TrimSuffix(file, filepath.Ext(file))
}

// Split partitions a pool of file names into train and validation subsets.
// The pool is sorted and shuffled with the seed before cutting, so the same
// pool, ratio and seed always produce the same partition. The two subsets are
// disjoint, together cover the pool, and are returned sorted. The validation
// subset holds ceil((1-ratio)*len(pool)) names.
func Split(pool []string, ratio float64, seed int64) (train, validation []string, err error) {
	if ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.Errorf("split ratio must be in (0, 1), got %v", ratio)
	}
	shuffled := make([]string, len(pool))
	copy(shuffled, pool)
	sort.Strings(shuffled)

	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	nVal := int(math.Ceil((1 - ratio) * float64(len(shuffled))))
	validation = append([]string{}, shuffled[:nVal]...)
	train = append([]string{}, shuffled[nVal:]...)
	sort.Strings(train)
	sort.Strings(validation)
	return train, validation, nil
}
