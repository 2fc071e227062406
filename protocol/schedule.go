package protocol

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
)

// Combination is one effort/credit/beneficiary cell of the design.
type Combination struct {
	EffortPercent int
	Presses       int
	Credits       int
	Beneficiary   Beneficiary
}

// BuildCombinations crosses every effort level with every credit level for
// one beneficiary. targets[i] is the press count of levels[i].
func BuildCombinations(targets, levels, credits []int, b Beneficiary) []Combination {
	combos := make([]Combination, 0, len(levels)*len(credits))
	for i, pct := range levels {
		for _, c := range credits {
			combos = append(combos, Combination{
				EffortPercent: pct,
				Presses:       targets[i],
				Credits:       c,
				Beneficiary:   b,
			})
		}
	}
	return combos
}

func repeat(combos []Combination, n int) []Combination {
	out := make([]Combination, 0, len(combos)*n)
	for i := 0; i < n; i++ {
		out = append(out, combos...)
	}
	return out
}

// BuildBlocks lays out the experimental blocks. perBeneficiary holds the
// combinations of each beneficiary in the order of p.Beneficiaries.
func BuildBlocks(perBeneficiary [][]Combination, p Params, rng *rand.Rand) [][]Combination {
	blocks := make([][]Combination, p.Blocks)
	for bi := range blocks {
		var trials []Combination
		for _, combos := range perBeneficiary {
			switch p.BlockType {
			case BlockTotal:
				trials = append(trials, repeat(combos, p.RepetitionsPerBlock)...)
			default:
				trials = append(trials, repeat(blockSlice(combos, bi, p.Blocks), p.RepetitionsPerBlock)...)
			}
		}
		rng.Shuffle(len(trials), func(i, j int) { trials[i], trials[j] = trials[j], trials[i] })
		blocks[bi] = trials
	}
	return blocks
}

// blockSlice returns the i-th of n contiguous slices of combos. The last
// slice takes the remainder.
func blockSlice(combos []Combination, i, n int) []Combination {
	size := len(combos) / n
	start := i * size
	end := start + size
	if i == n-1 {
		end = len(combos)
	}
	return combos[start:end]
}

// PracticeSample draws up to n combinations per beneficiary without
// replacement and shuffles them together.
func PracticeSample(perBeneficiary [][]Combination, n int, rng *rand.Rand) []Combination {
	var out []Combination
	for _, combos := range perBeneficiary {
		idx := rng.Perm(len(combos))
		k := min(n, len(combos))
		for _, i := range idx[:k] {
			out = append(out, combos[i])
		}
	}
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// LoadSchedule reads a fixed trial order. Each record is
// block,effort_percent,credits,beneficiary with 1-based blocks. A header
// line is skipped. Presses are filled in later by ApplyTargets.
func LoadSchedule(path string) ([][]Combination, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	var blocks [][]Combination
	for i, record := range records {
		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: expected 4 fields, got %d", i+1, len(record))
		}
		if i == 0 && strings.EqualFold(record[0], "block") {
			continue
		}

		block, err := strconv.Atoi(record[0])
		if err != nil || block < 1 {
			return nil, fmt.Errorf("line %d: invalid block: %q", i+1, record[0])
		}
		effort, err := strconv.Atoi(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid effort percent: %v", i+1, err)
		}
		credits, err := strconv.Atoi(record[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid credits: %v", i+1, err)
		}
		b, err := ParseBeneficiary(record[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: %v", i+1, err)
		}

		for len(blocks) < block {
			blocks = append(blocks, nil)
		}
		blocks[block-1] = append(blocks[block-1], Combination{
			EffortPercent: effort,
			Credits:       credits,
			Beneficiary:   b,
		})
	}
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%s: no trials", path)
	}
	return blocks, nil
}

// ApplyTargets sets Presses from the effort percentage and calibrated max.
func ApplyTargets(blocks [][]Combination, max int) {
	for _, block := range blocks {
		for i := range block {
			block[i].Presses = PressTargets(max, []int{block[i].EffortPercent})[0]
		}
	}
}
