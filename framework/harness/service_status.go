package harness

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const statusPollInterval = 100 * time.Millisecond

// waitForService polls the URL until it returns a response or the timeout expires. Any
// response other than 200 is an error, since it means the backend is up but not working.
func waitForService(url string, timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to backend at %s", url)

	client := &http.Client{Timeout: timeout}
	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := client.Get(url)
		if err == nil {
			fmt.Fprintln(output)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status query returned HTTP %d", resp.StatusCode)
			}
			fmt.Fprintf(output, "Backend is responding\n")
			return nil
		}
		if !time.Now().Before(deadline) {
			fmt.Fprintln(output)
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(statusPollInterval)
	}
}

// probeFrontend makes a single request to the frontend. Server errors count as unavailable;
// anything else means something is serving pages there.
func probeFrontend(url string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("frontend returned HTTP %d", resp.StatusCode)
	}
	return nil
}
