package training

import (
	"fmt"

	"github.com/vecsnap/vecsnap"
)

// Batch pairs an embed input with the constant target value the loss
// compares against.
type Batch struct {
	Input  vecsnap.Input
	Target float32
}

// Dataset yields fixed-size batches for the runner.
type Dataset interface {
	Len() int
	Batch(i int) Batch
}

// SyntheticDataset produces fixed-size text batches with a constant dummy
// target. It exists only to satisfy the runner's interface during
// checkpoint exercises; the content carries no signal.
type SyntheticDataset struct {
	Texts      []string
	BatchSize  int
	NumBatches int
	Target     float32
}

// NewSyntheticDataset builds a dataset of numBatches batches with batchSize
// generated sentences each and a constant target of zero.
func NewSyntheticDataset(batchSize, numBatches int) *SyntheticDataset {
	if batchSize <= 0 {
		batchSize = 1
	}
	if numBatches <= 0 {
		numBatches = 1
	}
	texts := make([]string, batchSize*numBatches)
	for i := range texts {
		texts[i] = fmt.Sprintf("synthetic sample %d", i)
	}
	return &SyntheticDataset{
		Texts:      texts,
		BatchSize:  batchSize,
		NumBatches: numBatches,
	}
}

// Len returns the number of batches.
func (d *SyntheticDataset) Len() int { return d.NumBatches }

// Batch returns the i-th batch, cycling through the texts.
func (d *SyntheticDataset) Batch(i int) Batch {
	texts := make([]string, d.BatchSize)
	for j := range texts {
		texts[j] = d.Texts[(i*d.BatchSize+j)%len(d.Texts)]
	}
	return Batch{Input: vecsnap.Text(texts...), Target: d.Target}
}
