package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version     int                `toml:"version"`
	Profile     *profileSchema     `toml:"profile,omitempty"`
	Submissions []submissionSchema `toml:"submissions"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported workspace schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type profileSchema struct {
	UserID     string `toml:"user_id"`
	Department string `toml:"department"`
	Role       string `toml:"role"`
	Location   string `toml:"location"`
	Language   string `toml:"language"`
}

type submissionSchema struct {
	ID          string `toml:"id"`
	Key         string `toml:"key"`
	Title       string `toml:"title"`
	Sections    int    `toml:"sections"`
	SubmittedAt string `toml:"submitted_at"`
}
