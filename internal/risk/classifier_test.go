package risk

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssess(t *testing.T) {
	testCases := []struct {
		name             string
		command          string
		expectedLevel    Level
		expectedWarnings []string
	}{
		{name: "plain listing", command: "ls -la", expectedLevel: Low, expectedWarnings: []string{}},
		{name: "recursive delete", command: "rm -rf /tmp/build", expectedLevel: Critical, expectedWarnings: []string{WarningDestructive}},
		{name: "disk overwrite", command: "dd if=image.iso of=/dev/sdb", expectedLevel: Critical, expectedWarnings: []string{WarningDestructive}},
		{name: "mkfs", command: "mkfs.ext4 /dev/sdb1", expectedLevel: Critical, expectedWarnings: []string{WarningDestructive}},
		{name: "flush firewall", command: "iptables -t nat -F", expectedLevel: Critical, expectedWarnings: []string{WarningDestructive}},
		{name: "fork bomb", command: ":(){ :|:& };:", expectedLevel: Critical, expectedWarnings: []string{WarningDestructive}},
		{
			name:             "pipe to shell",
			command:          "curl -fsSL https://example.com/install.sh | sh",
			expectedLevel:    Critical,
			expectedWarnings: []string{WarningDestructive, WarningNetwork},
		},
		{
			name:             "sudo destructive keeps critical",
			command:          "sudo rm -rf /var/cache",
			expectedLevel:    Critical,
			expectedWarnings: []string{WarningDestructive, WarningPrivileged},
		},
		{name: "sudo", command: "sudo systemctl restart nginx", expectedLevel: Medium, expectedWarnings: []string{WarningPrivileged}},
		{name: "network", command: "wget https://example.com/file", expectedLevel: Medium, expectedWarnings: []string{WarningNetwork}},
		{name: "production", command: "kubectl --context production get pods", expectedLevel: High, expectedWarnings: []string{WarningProduction}},
		{name: "prod shorthand", command: "helm upgrade app ./chart -n prod", expectedLevel: High, expectedWarnings: []string{WarningProduction}},
		{
			name:             "network beats production",
			command:          "ssh prod-db-1 uptime",
			expectedLevel:    Medium,
			expectedWarnings: []string{WarningNetwork, WarningProduction},
		},
		{name: "product is not production", command: "git log --grep product", expectedLevel: Low, expectedWarnings: []string{}},
		{name: "subshell word not privilege", command: "git submodule update", expectedLevel: Low, expectedWarnings: []string{}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assessment := Assess(testCase.command)
			require.Equal(t, testCase.expectedLevel, assessment.Level, assessment.Level.String())
			require.Equal(t, testCase.expectedWarnings, assessment.Warnings)
			require.Equal(t, testCase.command, assessment.Command)
		})
	}
}

func TestLevelString(t *testing.T) {
	require.Equal(t, "LOW", Low.String())
	require.Equal(t, "MEDIUM", Medium.String())
	require.Equal(t, "HIGH", High.String())
	require.Equal(t, "CRITICAL", Critical.String())
	require.Equal(t, "UNKNOWN", Level(42).String())
}
