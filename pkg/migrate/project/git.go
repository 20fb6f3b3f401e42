package project

import (
	"github.com/go-git/go-git/v5"
)

// Stamp is report provenance: where the converted tree came from.
type Stamp struct {
	Branch string `json:"branch,omitempty"`
	Commit string `json:"commit,omitempty"`
	Dirty  bool   `json:"dirty,omitempty"`
}

// GitStamp reads the repository containing path and returns its branch and
// short commit for report provenance. Outside a repository, or on any other
// failure, it degrades to an empty stamp: provenance is informative, never a
// reason to fail a conversion run.
func GitStamp(path string) Stamp {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return Stamp{}
	}
	head, err := repo.Head()
	if err != nil {
		// covers the unborn HEAD of a fresh repo
		return Stamp{}
	}
	s := Stamp{Commit: head.Hash().String()[:8]}
	if head.Name().IsBranch() {
		s.Branch = head.Name().Short()
	}
	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			s.Dirty = !status.IsClean()
		}
	}
	return s
}
