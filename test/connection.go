package test

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lawnchairsociety/mazegen/internal/server"
	"github.com/lawnchairsociety/mazegen/internal/testclient"
)

const responseTimeout = 5 * time.Second

// =============================================================================
// Group 1: Connection
// =============================================================================

// TestHealthCheck tests that /healthz answers
func TestHealthCheck(serverAddr string) TestResult {
	const testName = "Health Check"

	logAction(testName, "GET /healthz")
	if err := testclient.CheckHealth(serverAddr, 2*time.Second); err != nil {
		return fail(testName, "Health check failed: %v", err)
	}
	return pass(testName, "Service is healthy")
}

// TestBasicSession tests that a session receives a maze for an empty request
func TestBasicSession(serverAddr string) TestResult {
	const testName = "Basic Session"

	name := uniqueName("session")
	logAction(testName, fmt.Sprintf("Connecting as '%s'...", name))
	client, err := testclient.NewTestClient(name, serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	logAction(testName, "Sending empty request")
	resp, err := client.Generate(server.Request{}, responseTimeout)
	if err != nil {
		return fail(testName, "Request failed: %v", err)
	}
	ok := resp.Error == "" && resp.RunID != "" && len(resp.Cells) > 0
	logResult(testName, ok, fmt.Sprintf("run %s, %dx%d", resp.RunID, resp.Width, resp.Length))
	if !ok {
		return fail(testName, "Unexpected response: error=%q run_id=%q cells=%d", resp.Error, resp.RunID, len(resp.Cells))
	}

	return pass(testName, "Received %dx%d maze %s", resp.Width, resp.Length, resp.RunID)
}

// TestBadRequestKeepsSession tests that malformed JSON is reported and the
// session keeps serving
func TestBadRequestKeepsSession(serverAddr string) TestResult {
	const testName = "Bad Request Keeps Session"

	client, err := testclient.NewTestClient(uniqueName("bad"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	logAction(testName, "Sending malformed JSON")
	client.ClearResponses()
	if err := client.SendRaw("{not json"); err != nil {
		return fail(testName, "Send failed: %v", err)
	}
	resp, ok := client.WaitForResponse(responseTimeout)
	if !ok {
		return fail(testName, "No error response for malformed request")
	}
	reported := strings.Contains(resp.Error, "invalid request")
	logResult(testName, reported, fmt.Sprintf("error: %q", resp.Error))
	if !reported {
		return fail(testName, "Expected invalid request error, got %q", resp.Error)
	}

	logAction(testName, "Sending valid request on same session")
	resp, err = client.Generate(server.Request{Width: 5, Length: 5, Seed: 7}, responseTimeout)
	if err != nil {
		return fail(testName, "Session unusable after bad request: %v", err)
	}
	if resp.Error != "" {
		return fail(testName, "Valid request failed: %s", resp.Error)
	}

	return pass(testName, "Malformed request reported, session still serving")
}

// TestUnknownDifficulty tests that an unknown difficulty is rejected
func TestUnknownDifficulty(serverAddr string) TestResult {
	const testName = "Unknown Difficulty"

	client, err := testclient.NewTestClient(uniqueName("difficulty"), serverAddr)
	if err != nil {
		return fail(testName, "Failed to connect: %v", err)
	}
	defer client.Close()

	resp, err := client.Generate(server.Request{Difficulty: "nightmare"}, responseTimeout)
	if err != nil {
		return fail(testName, "Request failed: %v", err)
	}
	logResult(testName, resp.Error != "", fmt.Sprintf("error: %q", resp.Error))
	if resp.Error == "" || len(resp.Cells) != 0 {
		return fail(testName, "Expected an error without a maze, got %d cells", len(resp.Cells))
	}

	return pass(testName, "Rejected with %q", resp.Error)
}

// TestConcurrentSessions tests several sessions generating at once
func TestConcurrentSessions(serverAddr string) TestResult {
	const testName = "Concurrent Sessions"
	const sessions = 3

	clients := make([]*testclient.TestClient, 0, sessions)
	defer func() {
		for _, c := range clients {
			c.Close()
		}
	}()
	for i := 0; i < sessions; i++ {
		c, err := testclient.NewTestClient(uniqueName("concurrent"), serverAddr)
		if err != nil {
			return fail(testName, "Failed to connect client %d: %v", i, err)
		}
		clients = append(clients, c)
	}

	logAction(testName, fmt.Sprintf("Generating on %d sessions at once", sessions))
	errs := make([]error, sessions)
	runIDs := make([]string, sessions)
	var wg sync.WaitGroup
	for i, c := range clients {
		wg.Add(1)
		go func(i int, c *testclient.TestClient) {
			defer wg.Done()
			resp, err := c.Generate(server.Request{Width: 15, Length: 15, Seed: int64(100 + i)}, responseTimeout)
			if err == nil && resp.Error != "" {
				err = fmt.Errorf("%s", resp.Error)
			}
			if err == nil {
				err = checkPerfect(resp)
			}
			errs[i] = err
			runIDs[i] = resp.RunID
		}(i, c)
	}
	wg.Wait()

	seen := make(map[string]bool)
	for i, err := range errs {
		logResult(testName, err == nil, fmt.Sprintf("session %d", i))
		if err != nil {
			return fail(testName, "Session %d: %v", i, err)
		}
		if seen[runIDs[i]] {
			return fail(testName, "Duplicate run ID %s", runIDs[i])
		}
		seen[runIDs[i]] = true
	}

	return pass(testName, "%d sessions each received a valid maze", sessions)
}
