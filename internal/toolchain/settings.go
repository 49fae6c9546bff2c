package toolchain

import "github.com/thomas-vilte/repocheck/internal/workerpool"

// Settings tune one language's strategies.
type Settings struct {
	Image   string
	Workers int
}

// WithDefaults fills unset fields.
func (s Settings) WithDefaults(image string) Settings {
	if s.Image == "" {
		s.Image = image
	}
	if s.Workers < 1 {
		s.Workers = workerpool.DefaultWorkers
	}
	return s
}
