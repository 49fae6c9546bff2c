// Package validation checks inbound requests before any GitHub call or
// container run.
package validation

import (
	"strings"
	"time"

	"github.com/thomas-vilte/repocheck/internal/errors"
	"github.com/thomas-vilte/repocheck/internal/models"
	"github.com/thomas-vilte/repocheck/internal/regex"
)

// DateLayout is the short form accepted next to RFC 3339.
const DateLayout = "2006-01-02"

// Now is the clock used for future-date checks.
var Now = time.Now

// Repository carries the fields shared by every request.
type Repository struct {
	Owner  string
	Repo   string
	Author string
}

// BranchesRequest asks for the branches an author committed to.
type BranchesRequest struct {
	Repository
	Since string
	Until string
}

// CreateBranchRequest asks for student/<author> to be created from Base.
type CreateBranchRequest struct {
	Repository
	Base string
}

// CommitRequest asks for an evaluation of the author's latest commit on Branch.
type CommitRequest struct {
	Repository
	Branch string
}

func (r Repository) validate() error {
	if err := required("owner", r.Owner); err != nil {
		return err
	}
	if err := required("repo", r.Repo); err != nil {
		return err
	}
	return required("author", r.Author)
}

// Query validates r and returns the query with its window parsed.
func (r BranchesRequest) Query() (models.RepositoryQuery, error) {
	if err := r.validate(); err != nil {
		return models.RepositoryQuery{}, err
	}

	since, err := ParseDate("since", r.Since)
	if err != nil {
		return models.RepositoryQuery{}, err
	}
	until, err := ParseDate("until", r.Until)
	if err != nil {
		return models.RepositoryQuery{}, err
	}
	if err := Window(since, until); err != nil {
		return models.RepositoryQuery{}, err
	}

	return models.RepositoryQuery{
		Owner:  strings.TrimSpace(r.Owner),
		Repo:   strings.TrimSpace(r.Repo),
		Author: strings.TrimSpace(r.Author),
		Since:  since,
		Until:  until,
	}, nil
}

func (r CreateBranchRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	return required("base", r.Base)
}

func (r CommitRequest) Validate() error {
	if err := r.validate(); err != nil {
		return err
	}
	if err := required("branch", r.Branch); err != nil {
		return err
	}
	return BranchName(r.Branch)
}

// BranchName rejects names git would read as an option.
func BranchName(branch string) error {
	if strings.HasPrefix(strings.TrimSpace(branch), "-") {
		return errors.ErrInvalidRequest.
			WithContext("field", "branch").
			WithContext("reason", "branch must not start with '-'")
	}
	return nil
}

// Reference returns the commit reference for r with an empty SHA.
func (r CommitRequest) Reference() models.CommitReference {
	return models.CommitReference{
		Owner:  strings.TrimSpace(r.Owner),
		Repo:   strings.TrimSpace(r.Repo),
		Branch: strings.TrimSpace(r.Branch),
		Author: strings.TrimSpace(r.Author),
	}
}

// ParseDate accepts RFC 3339 or YYYY-MM-DD (midnight UTC). An empty value
// yields nil.
func ParseDate(field, value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	for _, layout := range []string{time.RFC3339, DateLayout} {
		if t, err := time.Parse(layout, value); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}

	return nil, errors.ErrInvalidRequest.
		WithContext("field", field).
		WithContext("reason", "expected RFC 3339 or YYYY-MM-DD, got "+value)
}

// Window checks that since is not after until and that neither lies in the
// future. Either bound may be nil.
func Window(since, until *time.Time) error {
	now := Now()
	if since != nil && until != nil && since.After(*until) {
		return errors.ErrInvalidRequest.
			WithContext("field", "since").
			WithContext("reason", "since cannot be later than until")
	}
	if since != nil && since.After(now) {
		return errors.ErrInvalidRequest.
			WithContext("field", "since").
			WithContext("reason", "since cannot be in the future")
	}
	if until != nil && until.After(now) {
		return errors.ErrInvalidRequest.
			WithContext("field", "until").
			WithContext("reason", "until cannot be in the future")
	}
	return nil
}

// SHA checks an explicit commit identifier.
func SHA(sha string) error {
	if !regex.CommitSHA.MatchString(strings.TrimSpace(sha)) {
		return errors.ErrInvalidRequest.
			WithContext("field", "sha").
			WithContext("reason", "not a hex commit identifier")
	}
	return nil
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.ErrInvalidRequest.
			WithContext("field", field).
			WithContext("reason", field+" cannot be empty")
	}
	return nil
}
