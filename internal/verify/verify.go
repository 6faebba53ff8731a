// Package verify checks whether a tool is installed and proposes substitutes or install commands.
package verify

import (
	"fmt"

	"github.com/temirov/basher/internal/services/process"
)

const (
	statusAvailable = "Command is available"
	statusMissing   = "Command not found"
)

// Alternative is a substitute tool and whether it is installed.
type Alternative struct {
	Command   string `json:"command"`
	Available bool   `json:"available"`
	Path      string `json:"path,omitempty"`
}

// InstallOption is an install command for an available package manager.
type InstallOption struct {
	PackageManager string `json:"package_manager"`
	Available      bool   `json:"available"`
	Command        string `json:"command"`
}

// Report is the verification outcome for one command.
type Report struct {
	Command        string          `json:"command"`
	Exists         bool            `json:"exists"`
	Status         string          `json:"status"`
	Path           string          `json:"path,omitempty"`
	Alternatives   []Alternative   `json:"alternatives,omitempty"`
	InstallOptions []InstallOption `json:"install_options,omitempty"`
	Recommendation string          `json:"recommendation,omitempty"`
}

var alternativeCommands = map[string][]string{
	"kubectl": {"k9s", "kubectx", "helm"},
	"docker":  {"podman", "buildah"},
	"podman":  {"docker"},
	"git":     {"gh", "hub"},
	"npm":     {"yarn", "pnpm"},
	"pip":     {"pipx", "poetry", "pip3"},
	"vim":     {"nvim", "nano", "emacs"},
	"nvim":    {"vim", "nano", "emacs"},
	"python":  {"python3", "python2"},
	"python3": {"python"},
	"node":    {"nodejs"},
	"nodejs":  {"node"},
	"cat":     {"bat", "less", "more"},
	"ls":      {"exa", "lsd", "dir"},
	"find":    {"fd", "locate"},
	"grep":    {"rg", "ag", "ack"},
	"curl":    {"wget"},
	"wget":    {"curl"},
	"tar":     {"7z", "zip"},
	"zip":     {"tar", "7z"},
}

type packageManager struct {
	name    string
	program string
	format  string
}

var packageManagers = []packageManager{
	{name: "apt", program: "apt", format: "sudo apt update && sudo apt install %s"},
	{name: "yum", program: "yum", format: "sudo yum install %s"},
	{name: "dnf", program: "dnf", format: "sudo dnf install %s"},
	{name: "pacman", program: "pacman", format: "sudo pacman -S %s"},
	{name: "brew", program: "brew", format: "brew install %s"},
	{name: "snap", program: "snap", format: "sudo snap install %s"},
	{name: "flatpak", program: "flatpak", format: "flatpak install %s"},
	{name: "pip", program: "pip", format: "pip install %s"},
	{name: "pip3", program: "pip3", format: "pip3 install %s"},
	{name: "npm", program: "npm", format: "npm install -g %s"},
}

type specialInstall struct {
	requires string
	manager  string
	command  string
}

var specialInstalls = map[string][]specialInstall{
	"nvim": {
		{requires: "apt", manager: "apt", command: "sudo apt update && sudo apt install neovim"},
		{requires: "snap", manager: "snap", command: "sudo snap install nvim --classic"},
	},
	"docker": {
		{requires: "apt", manager: "apt", command: "curl -fsSL https://get.docker.com -o get-docker.sh && sh get-docker.sh"},
	},
	"node": {
		{requires: "apt", manager: "apt", command: "curl -fsSL https://deb.nodesource.com/setup_lts.x | sudo -E bash - && sudo apt install -y nodejs"},
	},
	"nodejs": {
		{requires: "apt", manager: "apt", command: "curl -fsSL https://deb.nodesource.com/setup_lts.x | sudo -E bash - && sudo apt install -y nodejs"},
	},
}

// Verifier resolves commands against PATH.
type Verifier struct {
	resolver process.ExecutableResolver
}

// NewVerifier constructs a Verifier.
func NewVerifier(resolver process.ExecutableResolver) *Verifier {
	return &Verifier{resolver: resolver}
}

// Verify reports whether command exists and, when it does not, what could replace or install it.
func (verifier *Verifier) Verify(command string) Report {
	if path, err := verifier.resolver.LookPath(command); err == nil {
		return Report{Command: command, Exists: true, Status: statusAvailable, Path: path}
	}

	alternatives := verifier.alternatives(command)
	installOptions := verifier.installOptions(command)
	return Report{
		Command:        command,
		Exists:         false,
		Status:         statusMissing,
		Alternatives:   alternatives,
		InstallOptions: installOptions,
		Recommendation: recommend(command, alternatives, installOptions),
	}
}

func (verifier *Verifier) alternatives(command string) []Alternative {
	candidates := alternativeCommands[command]
	alternatives := make([]Alternative, 0, len(candidates))
	for _, candidate := range candidates {
		alternative := Alternative{Command: candidate}
		if path, err := verifier.resolver.LookPath(candidate); err == nil {
			alternative.Available = true
			alternative.Path = path
		}
		alternatives = append(alternatives, alternative)
	}
	return alternatives
}

func (verifier *Verifier) installOptions(command string) []InstallOption {
	options := []InstallOption{}
	for _, manager := range packageManagers {
		if _, err := verifier.resolver.LookPath(manager.program); err != nil {
			continue
		}
		options = append(options, InstallOption{
			PackageManager: manager.name,
			Available:      true,
			Command:        fmt.Sprintf(manager.format, command),
		})
	}
	for _, special := range specialInstalls[command] {
		if _, err := verifier.resolver.LookPath(special.requires); err != nil {
			continue
		}
		options = append(options, InstallOption{PackageManager: special.manager, Available: true, Command: special.command})
	}
	return options
}

func recommend(command string, alternatives []Alternative, installOptions []InstallOption) string {
	for _, alternative := range alternatives {
		if alternative.Available {
			return "Use alternative: " + alternative.Command
		}
	}
	if len(installOptions) > 0 {
		primary := installOptions[0]
		return fmt.Sprintf("Install with %s: %s", primary.PackageManager, primary.Command)
	}
	return fmt.Sprintf("Command '%s' not found and no installation options detected", command)
}
