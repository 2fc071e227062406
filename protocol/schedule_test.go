package protocol

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRand() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestBuildCombinations(t *testing.T) {
	got := BuildCombinations([]int{5, 8}, []int{50, 80}, []int{2, 3}, Self)
	want := []Combination{
		{EffortPercent: 50, Presses: 5, Credits: 2, Beneficiary: Self},
		{EffortPercent: 50, Presses: 5, Credits: 3, Beneficiary: Self},
		{EffortPercent: 80, Presses: 8, Credits: 2, Beneficiary: Self},
		{EffortPercent: 80, Presses: 8, Credits: 3, Beneficiary: Self},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BuildCombinations mismatch (-want +got):\n%s", diff)
	}
}

func perBeneficiary(p Params) [][]Combination {
	targets := PressTargets(50, p.EffortLevels)
	out := make([][]Combination, len(p.Beneficiaries))
	for i, b := range p.Beneficiaries {
		out[i] = BuildCombinations(targets, p.EffortLevels, p.CreditLevels, b)
	}
	return out
}

func countCombos(blocks [][]Combination) map[Combination]int {
	counts := make(map[Combination]int)
	for _, block := range blocks {
		for _, c := range block {
			counts[c]++
		}
	}
	return counts
}

func TestBuildBlocksDivision(t *testing.T) {
	p := DefaultParams()
	p.Blocks = 3
	p.RepetitionsPerBlock = 2
	p.BlockType = BlockDivision
	combos := perBeneficiary(p)

	blocks := BuildBlocks(combos, p, testRand())
	require.Len(t, blocks, 3)
	// 16 combinations per beneficiary split 5, 5, 6.
	assert.Len(t, blocks[0], 3*5*2)
	assert.Len(t, blocks[1], 3*5*2)
	assert.Len(t, blocks[2], 3*6*2)

	counts := countCombos(blocks)
	assert.Len(t, counts, 3*16)
	for c, n := range counts {
		assert.Equal(t, 2, n, "%+v", c)
	}
}

func TestBuildBlocksTotal(t *testing.T) {
	p := DefaultParams()
	p.Blocks = 2
	p.RepetitionsPerBlock = 1
	p.BlockType = BlockTotal
	combos := perBeneficiary(p)

	blocks := BuildBlocks(combos, p, testRand())
	require.Len(t, blocks, 2)
	for _, block := range blocks {
		assert.Len(t, block, 3*16)
		for _, n := range countCombos([][]Combination{block}) {
			assert.Equal(t, 1, n)
		}
	}
}

func TestBuildBlocksDeterministicWithSeed(t *testing.T) {
	p := DefaultParams()
	combos := perBeneficiary(p)
	a := BuildBlocks(combos, p, testRand())
	b := BuildBlocks(combos, p, testRand())
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different blocks:\n%s", diff)
	}
}

func TestPracticeSample(t *testing.T) {
	p := DefaultParams()
	combos := perBeneficiary(p)

	sample := PracticeSample(combos, 2, testRand())
	require.Len(t, sample, 6)
	per := make(map[Beneficiary]int)
	seen := make(map[Combination]bool)
	for _, c := range sample {
		per[c.Beneficiary]++
		assert.False(t, seen[c], "duplicate %+v", c)
		seen[c] = true
	}
	assert.Equal(t, map[Beneficiary]int{Self: 2, InGroup: 2, OutGroup: 2}, per)

	assert.Len(t, PracticeSample(combos, 100, testRand()), 3*16, "capped at the available combinations")
	assert.Empty(t, PracticeSample(combos, 0, testRand()))
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "schedule.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSchedule(t *testing.T) {
	path := writeFile(t, "block,effort_percent,credits,beneficiary\n"+
		"1, 50, 2, TI\n"+
		"2, 95, 5, out-group\n"+
		"1, 80, 3, other\n")

	blocks, err := LoadSchedule(path)
	require.NoError(t, err)
	want := [][]Combination{
		{
			{EffortPercent: 50, Credits: 2, Beneficiary: Self},
			{EffortPercent: 80, Credits: 3, Beneficiary: InGroup},
		},
		{
			{EffortPercent: 95, Credits: 5, Beneficiary: OutGroup},
		},
	}
	if diff := cmp.Diff(want, blocks); diff != "" {
		t.Errorf("LoadSchedule mismatch (-want +got):\n%s", diff)
	}

	ApplyTargets(blocks, 40)
	assert.Equal(t, 20, blocks[0][0].Presses)
	assert.Equal(t, 32, blocks[0][1].Presses)
	assert.Equal(t, 38, blocks[1][0].Presses)
}

func TestLoadScheduleErrors(t *testing.T) {
	tests := map[string]string{
		"short record":        "1,50,2\n",
		"zero block":          "0,50,2,self\n",
		"bad effort":          "1,lots,2,self\n",
		"unknown beneficiary": "1,50,2,boss\n",
		"header only":         "block,effort_percent,credits,beneficiary\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadSchedule(writeFile(t, content))
			assert.Error(t, err)
		})
	}

	_, err := LoadSchedule(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}
