package test

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// uniqueCounter provides unique session names within a single run
var uniqueCounter uint64

// uniqueName appends a run-local counter to base.
func uniqueName(base string) string {
	return fmt.Sprintf("%s-%d", base, atomic.AddUint64(&uniqueCounter, 1))
}

// Verbose controls whether detailed logging is shown during tests
var Verbose = false

// TestResult represents the result of a test
type TestResult struct {
	Name    string
	Passed  bool
	Message string
}

// logAction logs a test action when verbose mode is enabled
func logAction(testName, action string) {
	if Verbose {
		fmt.Printf("  [%s] %s\n", testName, action)
	}
}

// logResult logs an expected vs actual result when verbose mode is enabled
func logResult(testName string, success bool, detail string) {
	if Verbose {
		status := "OK"
		if !success {
			status = "FAIL"
		}
		fmt.Printf("  [%s] %s: %s\n", testName, status, detail)
	}
}

func fail(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: false, Message: fmt.Sprintf(format, args...)}
}

func pass(name, format string, args ...any) TestResult {
	return TestResult{Name: name, Passed: true, Message: fmt.Sprintf(format, args...)}
}

// testEntry holds a test function and its name
type testEntry struct {
	Name string
	Func func(string) TestResult
}

// getAllTests returns all test entries in order
func getAllTests() []testEntry {
	return []testEntry{
		// Group 1: Connection
		{"Health Check", TestHealthCheck},
		{"Basic Session", TestBasicSession},
		{"Bad Request Keeps Session", TestBadRequestKeepsSession},
		{"Unknown Difficulty", TestUnknownDifficulty},
		{"Concurrent Sessions", TestConcurrentSessions},

		// Group 2: Generation
		{"Perfect Maze", TestPerfectMaze},
		{"Seed Determinism", TestSeedDeterminism},
		{"Difficulty Presets", TestDifficultyPresets},
		{"Dimension Clamping", TestDimensionClamping},
		{"Replay", TestReplay},
	}
}

// RunAllTests runs all integration tests
func RunAllTests(serverAddr string) []TestResult {
	tests := getAllTests()
	results := make([]TestResult, 0, len(tests))
	for _, t := range tests {
		results = append(results, t.Func(serverAddr))
	}
	return results
}

// GetTestNames returns the names of all available tests
func GetTestNames() []string {
	tests := getAllTests()
	names := make([]string, len(tests))
	for i, t := range tests {
		names[i] = t.Name
	}
	return names
}

// RunFilteredTests runs only tests whose names contain the filter string (case-insensitive)
func RunFilteredTests(serverAddr string, filter string) []TestResult {
	results := make([]TestResult, 0)
	filterLower := strings.ToLower(filter)

	for _, t := range getAllTests() {
		if strings.Contains(strings.ToLower(t.Name), filterLower) {
			results = append(results, t.Func(serverAddr))
		}
	}

	return results
}

// PrintResults prints all test results in a formatted way
func PrintResults(results []TestResult) {
	passed := 0
	failed := 0

	fmt.Println("============================================================")
	fmt.Println("Integration Test Results")
	fmt.Println("============================================================")
	fmt.Println()

	for _, r := range results {
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
			failed++
		} else {
			passed++
		}
		fmt.Printf("[%s] %s: %s\n", status, r.Name, r.Message)
	}

	fmt.Println()
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Total: %d | Passed: %d | Failed: %d\n", len(results), passed, failed)
	fmt.Println("------------------------------------------------------------")
}
