package assistant

// defaultSystemCommands are common utilities that are never introspected.
var defaultSystemCommands = []string{
	"ls", "cd", "cp", "mv", "rm", "cat", "grep", "find", "ps", "top", "df", "du",
	"chmod", "chown", "mkdir", "touch", "head", "tail", "less", "more", "sort",
	"uniq", "wc", "awk", "sed", "tar", "gzip", "gunzip", "zip", "unzip", "curl",
	"wget", "ssh", "scp", "rsync", "mount", "umount", "ping", "traceroute",
	"netstat", "ifconfig", "ip", "iptables", "systemctl", "service", "crontab",
	"history", "alias", "which", "whereis", "locate", "updatedb", "man", "info",
}

func buildSystemCommandSet(extra []string) map[string]struct{} {
	set := make(map[string]struct{}, len(defaultSystemCommands)+len(extra))
	for _, command := range defaultSystemCommands {
		set[command] = struct{}{}
	}
	for _, command := range extra {
		if command != "" {
			set[command] = struct{}{}
		}
	}
	return set
}
