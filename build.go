//go:build ignore

// build.go - gradesdash build system
// Usage: go run build.go [-target=TARGET]
// Targets: all, gradesdash, gradesctl, clean, test, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
)

const (
	version = "0.1.0"
	module  = "gradesdash"
	distDir = "dist"
)

// BuildContext holds configuration for the build process
type BuildContext struct {
	Verbose bool
	GOOS    string
	GOARCH  string
}

// executables are the cmd/ directories built by default.
var executables = []string{"gradesdash", "gradesctl"}

var (
	infoLabel    = color.New(color.FgBlue).Sprint("[INFO]")
	successLabel = color.New(color.FgGreen).Sprint("[SUCCESS]")
	errorLabel   = color.New(color.FgRed).Sprint("[ERROR]")
)

// releaseTargets are the platforms built by -target=release.
var releaseTargets = [][2]string{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "arm64"},
	{"windows", "amd64"},
}

func main() {
	target := flag.String("target", "all", "Build target")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	color.New(color.FgCyan).Println("=== gradesdash build ===")

	startTime := time.Now()
	ctx := &BuildContext{Verbose: *verbose, GOOS: runtime.GOOS, GOARCH: runtime.GOARCH}

	switch *target {
	case "all":
		for _, name := range executables {
			buildExecutable(name, ctx)
		}
	case "gradesdash", "gradesctl":
		buildExecutable(*target, ctx)
	case "clean":
		clean()
	case "test":
		runTests(ctx.Verbose)
	case "release":
		buildRelease(ctx)
	default:
		showHelp()
		os.Exit(1)
	}

	printSuccess(fmt.Sprintf("Build completed in %s", time.Since(startTime).Round(time.Millisecond)))
}

func printInfo(msg string) {
	fmt.Println(infoLabel, msg)
}

func printSuccess(msg string) {
	fmt.Println(successLabel, msg)
}

func printError(msg string) {
	fmt.Println(errorLabel, msg)
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func buildExecutable(name string, ctx *BuildContext) {
	printInfo(fmt.Sprintf("Building %s for %s/%s...", name, ctx.GOOS, ctx.GOARCH))

	outName := name
	if ctx.GOOS == "windows" {
		outName += ".exe"
	}
	outputPath := filepath.Join(distDir, ctx.GOOS+"_"+ctx.GOARCH, outName)

	pkg := module + "/internal/config"
	ldflags := fmt.Sprintf("-s -w -X %s.Version=%s -X %s.Commit=%s -X %s.BuildTime=%s",
		pkg, version, pkg, gitCommit(), pkg, time.Now().UTC().Format(time.RFC3339))

	args := []string{"build", "-trimpath", "-ldflags", ldflags, "-o", outputPath, "./cmd/" + name}
	if ctx.Verbose {
		args = append([]string{"build", "-v"}, args[1:]...)
	}

	cmd := exec.Command("go", args...)
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0", "GOOS="+ctx.GOOS, "GOARCH="+ctx.GOARCH)
	cmd.Stderr = os.Stderr
	if ctx.Verbose {
		fmt.Printf("go %s\n", strings.Join(args, " "))
		cmd.Stdout = os.Stdout
	}

	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Failed to build %s: %v", name, err))
		os.Exit(1)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
}

func clean() {
	printInfo("Cleaning build artifacts...")
	if err := os.RemoveAll(distDir); err != nil {
		printError(fmt.Sprintf("Failed to clean %s: %v", distDir, err))
		os.Exit(1)
	}
	printSuccess("Build artifacts cleaned")
}

func runTests(verbose bool) {
	printInfo("Running Go tests...")
	args := []string{"test", "-race"}
	if verbose {
		args = append(args, "-v")
	}
	args = append(args, "./...")

	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		printError(fmt.Sprintf("Go tests failed: %v", err))
		os.Exit(1)
	}
	printSuccess("All tests passed")
}

func buildRelease(ctx *BuildContext) {
	printInfo("Building release version...")
	clean()

	for _, t := range releaseTargets {
		rc := &BuildContext{Verbose: ctx.Verbose, GOOS: t[0], GOARCH: t[1]}
		for _, name := range executables {
			buildExecutable(name, rc)
		}
	}

	content := fmt.Sprintf("gradesdash v%s\ncommit %s\nbuilt %s\n",
		version, gitCommit(), time.Now().UTC().Format("2006-01-02 15:04:05"))
	if err := os.WriteFile(filepath.Join(distDir, "VERSION.txt"), []byte(content), 0o644); err != nil {
		printError(fmt.Sprintf("Failed to write VERSION.txt: %v", err))
	}
	printSuccess("Release build completed")
}

func showHelp() {
	fmt.Println("Usage: go run build.go [-target=TARGET] [-v]")
	fmt.Println()
	fmt.Println("Targets:")
	fmt.Println("  all         Build gradesdash and gradesctl (default)")
	fmt.Println("  gradesdash  Build the dashboard server")
	fmt.Println("  gradesctl   Build the command-line tool")
	fmt.Println("  clean       Remove dist/")
	fmt.Println("  test        Run go test -race ./...")
	fmt.Println("  release     Cross-compile every executable")
}
