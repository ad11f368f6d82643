package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"regexp"
	"text/template"
)

// commentTemplate is the body posted back to the pull request or issue
// the workflow ran for. Summary carries the book outputs, Details the
// full console log.
var commentTemplate = "#### {{.Name}}: `{{.Run}}` finished with status {{.Status}}\n" +
	"{{ if .Summary }}\n```\n{{ .Summary }}```\n{{ end -}}" +
	"<details>\n" +
	"```\n" +
	"{{.Details}}" +
	"```\n" +
	"</details>\n"

func sendGitHubComment(name, run, status, summary, details string) error {
	body, err := buildComment(name, run, status, summary, details)
	if err != nil {
		return err
	}

	println("Trying to send a GitHub Issue/Pull request comment:")
	println(body)

	return postGitHubComment(body)
}

func buildComment(name, run, status, summary, details string) (string, error) {
	tpl, err := template.New("comment").Parse(commentTemplate)
	if err != nil {
		return "", err
	}

	data := map[string]string{
		"Name":    name,
		"Run":     run,
		"Status":  status,
		"Summary": summary,
		"Details": details,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func postGitHubComment(body string) error {
	u, err := commentsURL()
	if err != nil {
		return err
	}

	reqBody, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}

	req, err := http.NewRequest("POST", u, bytes.NewReader(reqBody))
	if err != nil {
		return err
	}
	req.Header.Add("Authorization", fmt.Sprintf("token %s", os.Getenv("GITHUB_TOKEN")))
	req.Header.Add("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	contents, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "finished posting a github comment: code=%d, response=%s\n", resp.StatusCode, string(contents))

	return nil
}

// commentsURL extracts the comments API endpoint from the workflow's
// event payload, usually /github/workflow/event.json. See
// https://help.github.com/en/articles/virtual-environments-for-github-actions#default-environment-variables
func commentsURL() (string, error) {
	eventPath := os.Getenv("GITHUB_EVENT_PATH")
	event, err := ioutil.ReadFile(eventPath)
	if err != nil {
		return "", fmt.Errorf("get comments URL: %v", err)
	}

	evt := struct {
		PullRequest struct {
			CommentsURL string `json:"comments_url"`
		} `json:"pull_request"`
		Issue struct {
			CommentsURL string `json:"comments_url"`
		} `json:"issue"`
	}{}
	if err := json.Unmarshal(event, &evt); err != nil {
		return "", err
	}

	if evt.PullRequest.CommentsURL != "" {
		return evt.PullRequest.CommentsURL, nil
	}
	if evt.Issue.CommentsURL != "" {
		return evt.Issue.CommentsURL, nil
	}
	return "", fmt.Errorf("unable to detect issue comments URL in event.json: %s", string(event))
}

var colorCodes = regexp.MustCompile("\033" + `\[[^m]+m`)

// visibleLen is the line length with ANSI color codes stripped.
func visibleLen(str string) int {
	return len(colorCodes.ReplaceAllString(str, ""))
}

func linesScanner(reader io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(reader)
	scanner.Split(bufio.ScanLines)
	buf := make([]byte, 1024)
	scanner.Buffer(buf, bufio.MaxScanTokenSize)
	return scanner
}
