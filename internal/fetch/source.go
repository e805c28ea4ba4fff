package fetch

import (
	"fmt"
	"regexp"
	"strings"
)

// Supported hosting sites.
const (
	SiteGitHub    = "github"
	SiteGitLab    = "gitlab"
	SiteBitbucket = "bitbucket"
)

// DefaultRef is used when a source names no branch, tag or commit.
const DefaultRef = "HEAD"

var siteHosts = map[string]string{
	SiteGitHub:    "github.com",
	SiteGitLab:    "gitlab.com",
	SiteBitbucket: "bitbucket.org",
}

// Groups: 1 https host, 2 ssh host, 3 site prefix, 4 user, 5 repo, 6 subdir, 7 ref.
var sourcePattern = regexp.MustCompile(
	`^(?:(?:https://)?([^:/]+\.[^:/]+)/|git@([^:/]+)[:/]|([^/:]+):)?` +
		`([^/\s]+)/([^/\s#]+)((?:/[^/\s#]+)+)?/?(?:#(.+))?$`)

// Source identifies a template repository, an optional subdirectory and a ref.
type Source struct {
	Site   string
	User   string
	Name   string
	Ref    string
	Subdir string
}

// ParseSource parses references such as "owner/repo", "owner/repo#main",
// "gitlab:owner/repo/sub/dir#v1", "https://github.com/owner/repo" or
// "git@github.com:owner/repo".
func ParseSource(ref string) (Source, error) {
	ref = strings.TrimSpace(ref)
	m := sourcePattern.FindStringSubmatch(ref)
	if m == nil {
		return Source{}, fmt.Errorf("could not parse template source %q", ref)
	}

	site := SiteGitHub
	switch {
	case m[1] != "":
		site = siteFromHost(m[1])
	case m[2] != "":
		site = siteFromHost(m[2])
	case m[3] != "":
		site = m[3]
	}
	if _, ok := siteHosts[site]; !ok {
		return Source{}, fmt.Errorf("unsupported host %q in template source %q: supported sites are github, gitlab and bitbucket", site, ref)
	}

	src := Source{
		Site:   site,
		User:   m[4],
		Name:   strings.TrimSuffix(m[5], ".git"),
		Ref:    m[7],
		Subdir: strings.Trim(m[6], "/"),
	}
	if src.Ref == "" {
		src.Ref = DefaultRef
	}
	return src, nil
}

// siteFromHost maps "github.com" to "github" and so on.
func siteFromHost(host string) string {
	host = strings.TrimPrefix(host, "www.")
	for site, h := range siteHosts {
		if h == host {
			return site
		}
	}
	return strings.TrimSuffix(strings.TrimSuffix(host, ".com"), ".org")
}

// Repo returns "user/name".
func (s Source) Repo() string {
	return s.User + "/" + s.Name
}

// String renders the source in its canonical "site:user/repo/subdir#ref" form.
func (s Source) String() string {
	out := s.Site + ":" + s.Repo()
	if s.Subdir != "" {
		out += "/" + s.Subdir
	}
	return out + "#" + s.Ref
}

// URL returns the repository's web URL.
func (s Source) URL() string {
	return "https://" + siteHosts[s.Site] + "/" + s.Repo()
}

// CloneURL returns the HTTPS git URL.
func (s Source) CloneURL() string {
	return s.URL() + ".git"
}

// ArchiveURL returns the download URL of the ref's gzipped tarball.
func (s Source) ArchiveURL() string {
	switch s.Site {
	case SiteGitLab:
		return fmt.Sprintf("%s/-/archive/%s/%s-%s.tar.gz", s.URL(), s.Ref, s.Name, s.Ref)
	case SiteBitbucket:
		return fmt.Sprintf("%s/get/%s.tar.gz", s.URL(), s.Ref)
	default:
		return fmt.Sprintf("https://codeload.github.com/%s/tar.gz/%s", s.Repo(), s.Ref)
	}
}
