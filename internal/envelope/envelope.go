// Package envelope reduces raw interleaved PCM to a coarse amplitude envelope.
package envelope

// DefaultResolution is the number of buckets per second of audio per channel
// used when no resolution is configured.
const DefaultResolution = 60

// Envelope holds one mean absolute amplitude per bucket of raw samples.
type Envelope []float32

// BucketSize derives the bucket length in samples from the asset's sample
// rate and a coarse time resolution. The result is never below 1.
func BucketSize(sampleRate, resolution int) int {
	if resolution <= 0 {
		resolution = DefaultResolution
	}
	n := sampleRate / resolution
	if n < 1 {
		return 1
	}
	return n
}

// Build partitions samples into contiguous buckets of bucketSize samples and
// averages the absolute values of each. Trailing samples that do not fill a
// whole bucket are dropped. A bucket size that yields no buckets produces an
// empty envelope.
func Build(samples []float32, bucketSize int) Envelope {
	if bucketSize < 1 {
		return Envelope{}
	}
	n := len(samples) / bucketSize
	env := make(Envelope, n)
	for i := range n {
		var sum float64
		for _, s := range samples[i*bucketSize : (i+1)*bucketSize] {
			if s < 0 {
				s = -s
			}
			sum += float64(s)
		}
		env[i] = float32(sum / float64(bucketSize))
	}
	return env
}

// At returns the value of bucket i, or 0 when i is out of range.
func (e Envelope) At(i int) float32 {
	if i < 0 || i >= len(e) {
		return 0
	}
	return e[i]
}

// Peak returns the largest bucket value.
func (e Envelope) Peak() float32 {
	var peak float32
	for _, v := range e {
		if v > peak {
			peak = v
		}
	}
	return peak
}
