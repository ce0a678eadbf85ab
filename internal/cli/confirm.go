package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm prompts for confirmation of the rendered plan and returns true
// only on an explicit yes. Anything else, including a read error, declines.
func Confirm(in io.Reader, out io.Writer, actionCount int) bool {
	fmt.Fprintf(out, "Apply %d actions? [y/N] ", actionCount)

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
