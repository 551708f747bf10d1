package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/arklim/social-platform-auth/internal/credscan"
)

// Exit codes: 0 clean, 1 high-severity findings, 2 usage or read failure.
const (
	exitClean = 0
	exitDirty = 1
	exitError = 2
)

func main() {
	failOnMedium := flag.Bool("fail-on-medium", false, "exit non-zero on medium-severity findings as well as high")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [file ...]\n\n", os.Args[0])
		fmt.Fprintln(flag.CommandLine.Output(), "Scans the named files (or stdin when none are given) for hardcoded credentials.")
		flag.PrintDefaults()
	}
	flag.Parse()

	detector := credscan.NewDetector()

	reports, err := scan(detector, flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "credscan: %v\n", err)
		os.Exit(exitError)
	}

	code := exitClean
	for _, report := range reports {
		for _, v := range report.Violations {
			name := v.Filename
			if name == "" {
				name = "<stdin>"
			}
			fmt.Printf("%s:%d: [%s] %s: %s\n", name, v.Line, v.Severity, v.RuleID, v.Content)
			if v.Severity == credscan.SeverityHigh {
				code = exitDirty
			}
			if *failOnMedium && v.Severity == credscan.SeverityMedium {
				code = exitDirty
			}
		}
		fmt.Println(report.Summary)
	}

	os.Exit(code)
}

func scan(detector *credscan.Detector, paths []string) ([]credscan.Report, error) {
	if len(paths) == 0 {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return []credscan.Report{detector.ScanContent(string(content), "")}, nil
	}

	reports := make([]credscan.Report, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		reports = append(reports, detector.ScanContent(string(content), path))
	}
	return reports, nil
}
