package models

import "time"

type (
	// RepositoryQuery identifies a GitHub repository and an optional,
	// inclusive time window for author commits.
	RepositoryQuery struct {
		Owner  string
		Repo   string
		Author string
		Since  *time.Time
		Until  *time.Time
	}

	// CommitReference pins the commit an evaluation runs against.
	CommitReference struct {
		Owner  string
		Repo   string
		Branch string
		Author string
		SHA    string
	}
)
