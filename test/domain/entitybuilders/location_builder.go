package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/campusware/gitread/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// LocationBuilder helps create test locations with a fluent interface.
type LocationBuilder struct {
	*testkit.BaseBuilder
	url      string
	branch   string
	username string
	secret   string
}

// NewLocationBuilder creates a new location builder with sensible defaults.
func NewLocationBuilder() *LocationBuilder {
	return &LocationBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		url:         "https://git.example.edu/course-101.git",
		branch:      "main",
	}
}

// WithURL sets the repository URL.
func (b *LocationBuilder) WithURL(url string) *LocationBuilder {
	b.url = url
	return b
}

// WithBranch sets the branch name.
func (b *LocationBuilder) WithBranch(branch string) *LocationBuilder {
	b.branch = branch
	return b
}

// WithCredentials sets username and secret.
func (b *LocationBuilder) WithCredentials(username, secret string) *LocationBuilder {
	b.username = username
	b.secret = secret
	return b
}

// Build creates the location (satisfies testkit.Builder interface).
func (b *LocationBuilder) Build() interface{} {
	return b.BuildLocation()
}

// BuildLocation creates the location with a concrete return type.
func (b *LocationBuilder) BuildLocation() entities.Location {
	return entities.Location{
		URL:      b.url,
		Branch:   b.branch,
		Username: b.username,
		Secret:   b.secret,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *LocationBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.url = "https://git.example.edu/course-101.git"
	b.branch = "main"
	b.username = ""
	b.secret = ""
	return b
}

// Clone creates a deep copy of the LocationBuilder.
func (b *LocationBuilder) Clone() testkit.Builder {
	return &LocationBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		url:         b.url,
		branch:      b.branch,
		username:    b.username,
		secret:      b.secret,
	}
}
