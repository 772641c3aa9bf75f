package service

import (
	"math/rand/v2"
	"time"
)

// CloudConfig describes the sampled point cloud behind the hexagon layer.
type CloudConfig struct {
	Points    int     `yaml:"points"`
	CenterLat float64 `yaml:"center_lat"`
	CenterLon float64 `yaml:"center_lon"`
	SpreadLat float64 `yaml:"spread_lat"`
	SpreadLon float64 `yaml:"spread_lon"`
	// Seed 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`
}

// NewCloudRand returns the random source for a cloud config.
func NewCloudRand(cfg CloudConfig) *rand.Rand {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SampleCloud draws normally distributed points around the configured center.
func SampleCloud(rng *rand.Rand, cfg CloudConfig) []CloudPoint {
	if cfg.Points <= 0 {
		return []CloudPoint{}
	}
	pts := make([]CloudPoint, cfg.Points)
	for i := range pts {
		pts[i] = CloudPoint{
			Lat: rng.NormFloat64()*cfg.SpreadLat + cfg.CenterLat,
			Lon: rng.NormFloat64()*cfg.SpreadLon + cfg.CenterLon,
		}
	}
	return pts
}
