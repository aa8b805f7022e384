package config

import "fmt"

var VersionInfo = &BuildVersion{Version: "local"}

type BuildVersion struct {
	GitCommit, GitRef, Version string
}

func (v *BuildVersion) String() string {
	return fmt.Sprintf("GitCommit=%q GitRef=%q Version=%q", v.GitCommit, v.GitRef, v.Version)
}
