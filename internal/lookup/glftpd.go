package lookup

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// versionTimeout bounds the run of the daemon binary.
const versionTimeout = 2 * time.Second

// DaemonVersion returns the first line glftpd prints when run without a
// client attached, e.g. "glFTPd 2.13a (Jun 29 2023) 64BiT". It returns ""
// when the binary is missing or fails.
func DaemonVersion(ctx context.Context, glroot string) string {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, filepath.Join(glroot, "bin", "glftpd"))
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// glftpd exits with a non-zero status here even when it printed its
	// banner, so only stderr output counts as failure.
	_ = cmd.Run()
	if stderr.Len() > 0 || stdout.Len() == 0 {
		return ""
	}
	line, _, _ := strings.Cut(stdout.String(), "\n")
	return strings.TrimSpace(line)
}

// ConfigMaxUsers sums the values of the first "max_users" line of each
// glftpd.conf it finds (the usual locations relative to glroot and /etc).
// A zero result means no usable line was found.
func ConfigMaxUsers(glroot string) int {
	total := 0
	for _, path := range []string{
		filepath.Join(glroot, "..", "glftpd.conf"),
		filepath.Join(glroot, "glftpd.conf"),
		"/etc/glftpd.conf",
	} {
		f, err := os.Open(path)
		if err != nil {
			continue
		}
		total += parseMaxUsers(f)
		f.Close()
	}
	return total
}

func parseMaxUsers(r io.Reader) int {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 || fields[0] != "max_users" {
			continue
		}
		sum := 0
		for _, v := range fields[1:] {
			n, err := strconv.Atoi(v)
			if err != nil {
				break
			}
			sum += n
		}
		if sum > 0 {
			return sum
		}
	}
	return 0
}
