package main

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/runbook-sh/runbook/cmd"
)

func main() {
	// See https://help.github.com/en/articles/virtual-environments-for-github-actions#environment-variables
	// for the envvars that tell us we are running on GitHub Actions.
	if os.Getenv("GITHUB_ACTION") == "" {
		cmd.MustRun()
		return
	}

	stdout := os.Stdout
	stdoutR, stdoutW, _ := os.Pipe()
	os.Stdout = stdoutW

	stderr := os.Stderr
	stderrR, stderrW, _ := os.Pipe()
	os.Stderr = stderrW

	var mu sync.Mutex
	var stdoutBuf, allBuf bytes.Buffer

	stdoutDone := make(chan struct{})
	stderrDone := make(chan struct{})

	// Read both pipes concurrently so writes from the run never block
	// on a full pipe.
	go func() {
		defer close(stdoutDone)
		scanner := linesScanner(stdoutR)
		for scanner.Scan() {
			line := scanner.Text()
			if visibleLen(line) > 0 {
				line += "\n"
			}
			mu.Lock()
			stdoutBuf.WriteString(line)
			allBuf.WriteString(line)
			mu.Unlock()
			stdout.WriteString(line)
		}
	}()

	go func() {
		defer close(stderrDone)
		scanner := linesScanner(stderrR)
		for scanner.Scan() {
			line := scanner.Text()
			if visibleLen(line) > 0 {
				line += "\n"
			}
			mu.Lock()
			allBuf.WriteString(line)
			mu.Unlock()
			stderr.WriteString(line)
		}
	}()

	runOpts, runErr := cmd.RunE()

	// Restore stdout/err before closing the pipes. Otherwise writes to
	// os.Stdout/err fail because they are closed.
	os.Stdout = stdout
	os.Stderr = stderr

	stdoutW.Close()
	stderrW.Close()

	<-stdoutDone
	<-stderrDone

	wantComment := os.Getenv("RUNBOOK_GITHUB_COMMENT") != ""
	if runErr != nil {
		wantComment = wantComment || os.Getenv("RUNBOOK_GITHUB_COMMENT_ON_FAILURE") != ""
	} else {
		wantComment = wantComment || os.Getenv("RUNBOOK_GITHUB_COMMENT_ON_SUCCESS") != ""
	}

	if wantComment {
		name := os.Getenv("RUNBOOK_NAME")
		if name == "" {
			name = "runbook"
		}
		run := os.Getenv("RUNBOOK_RUN")
		status := fmt.Sprintf("%d", cmd.GetStatus(runErr, runOpts))

		if err := sendGitHubComment(name, run, status, stdoutBuf.String(), allBuf.String()); err != nil {
			log.Warnf("posting the run report to GitHub failed: %v", err)
		}
	}

	if runErr != nil {
		cmd.HandleErrorAndExit(runErr, runOpts)
	}
}
