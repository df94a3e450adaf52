package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const (
	colorGreen  = "\033[0;32m"
	colorRed    = "\033[0;31m"
	colorYellow = "\033[1;33m"
	colorBlue   = "\033[0;34m"
	colorReset  = "\033[0m"
)

func PrintInfo(format string, a ...interface{}) {
	fmt.Printf(colorBlue+"ℹ "+format+colorReset+"\n", a...)
}

func PrintSuccess(format string, a ...interface{}) {
	fmt.Printf(colorGreen+"✓ "+format+colorReset+"\n", a...)
}

func PrintWarning(format string, a ...interface{}) {
	fmt.Printf(colorYellow+"⚠ "+format+colorReset+"\n", a...)
}

func PrintError(format string, a ...interface{}) {
	fmt.Printf(colorRed+"✗ "+format+colorReset+"\n", a...)
}

func PrintHeader(title string) {
	fmt.Printf("\n"+colorYellow+"=== %s ==="+colorReset+"\n", title)
}

// checkArgs rejects shell metacharacters in command arguments. Arguments
// never pass through a shell here, but some of them end up in scripts or
// compose invocations that do.
func checkArgs(inputs ...string) error {
	for _, s := range inputs {
		if strings.ContainsAny(s, "\n\r\x00") {
			return fmt.Errorf("unsafe input: control character in %q", s)
		}
		for _, p := range []string{"|", "`", "$(", "&&", "||", ">", "<"} {
			if strings.Contains(s, p) {
				return fmt.Errorf("unsafe input: pattern %q in %q", p, s)
			}
		}
	}
	return nil
}

// runCommand runs a command silently
func runCommand(name string, args ...string) error {
	if err := checkArgs(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - generic command wrapper
	return exec.Command(name, args...).Run()
}

// runCommandVerbose runs a command and pipes output to stdout/stderr
func runCommandVerbose(name string, args ...string) error {
	if err := checkArgs(append([]string{name}, args...)...); err != nil {
		return err
	}
	// #nosec G204 - generic command wrapper
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func getCommandOutput(name string, args ...string) (string, error) {
	if err := checkArgs(append([]string{name}, args...)...); err != nil {
		return "", err
	}
	// #nosec G204 - generic command wrapper
	out, err := exec.Command(name, args...).Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
