package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sys/cpu"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout or the
	// benchmark changes meaning.
	CurrentProfileVersion = 1
	// DefaultProfileFileName is the profile name under the home directory.
	DefaultProfileFileName = ".bigcalc_calibration.json"
	// DefaultProfileMaxAge is how long a cached profile is trusted.
	DefaultProfileMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile records the measured multiplication threshold together
// with the hardware it was measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`

	NumCPU      int      `json:"num_cpu"`
	GOARCH      string   `json:"goarch"`
	GOOS        string   `json:"goos"`
	GoVersion   string   `json:"go_version"`
	WordSize    int      `json:"word_size"`
	CPUFeatures []string `json:"cpu_features,omitempty"`

	OptimalMulThreshold int    `json:"optimal_mul_threshold"`
	CalibrationDigits   int    `json:"calibration_digits"`
	CalibrationTime     string `json:"calibration_time"`
}

// NewProfile creates a profile describing the current machine, with no
// measurement yet.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
		CPUFeatures:    cpuFeatures(),
	}
}

// cpuFeatures lists the instruction set extensions that change the speed of
// the multiplication inner loops.
func cpuFeatures() []string {
	var f []string
	switch runtime.GOARCH {
	case "amd64", "386":
		if cpu.X86.HasAVX2 {
			f = append(f, "avx2")
		}
		if cpu.X86.HasBMI2 {
			f = append(f, "bmi2")
		}
		if cpu.X86.HasADX {
			f = append(f, "adx")
		}
	case "arm64":
		if cpu.ARM64.HasASIMD {
			f = append(f, "asimd")
		}
		if cpu.ARM64.HasSVE {
			f = append(f, "sve")
		}
	}
	return f
}

// IsValid reports whether the profile was produced by this profile version
// on hardware equivalent to the current machine.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	current := NewProfile()
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == current.NumCPU &&
		p.GOARCH == current.GOARCH &&
		p.WordSize == current.WordSize &&
		slices.Equal(p.CPUFeatures, current.CPUFeatures)
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

// String renders a one-line description of the profile.
func (p *CalibrationProfile) String() string {
	return fmt.Sprintf("calibration profile v%d (%s/%s, %d CPUs, %d-bit): mul threshold %d segments, measured at %d digits on %s",
		p.ProfileVersion, p.GOOS, p.GOARCH, p.NumCPU, p.WordSize,
		p.OptimalMulThreshold, p.CalibrationDigits, p.CalibratedAt.Format(time.RFC3339))
}

// SaveProfile writes the profile as indented JSON. The file is replaced
// atomically.
func (p *CalibrationProfile) SaveProfile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode calibration profile: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".calibration-*.json")
	if err != nil {
		return fmt.Errorf("save calibration profile: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("save calibration profile: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save calibration profile: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save calibration profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode calibration profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path, or returns a fresh one when
// the file is missing or unreadable. The boolean reports whether the profile
// came from disk.
func LoadOrCreateProfile(path string) (*CalibrationProfile, bool) {
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// GetDefaultProfilePath returns ~/.bigcalc_calibration.json, falling back to
// the working directory when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// resolveProfilePath returns path, or the default location when empty.
func resolveProfilePath(path string) string {
	if path == "" {
		return GetDefaultProfilePath()
	}
	return path
}
