package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/AaronLge/GeometrieConverter/pkg/assembly"
)

// confirmViaTerminal returns a ConfirmFunc that resolves assembly decisions
// with plain y/n style prompts on the given reader and writer.
func confirmViaTerminal(r io.Reader, w io.Writer) assembly.ConfirmFunc {
	reader := bufio.NewReader(r)
	return func(ctx context.Context, req assembly.ConfirmRequest) (assembly.ConfirmResponse, error) {
		if err := ctx.Err(); err != nil {
			return assembly.ConfirmResponse{}, err
		}
		switch req.Kind {
		case assembly.ConfirmReferenceConflict:
			fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(req.Message))
			roles := make([]string, 0, len(req.References))
			for role := range req.References {
				roles = append(roles, role)
			}
			slices.Sort(roles)
			for _, role := range roles {
				value := req.References[role]
				if value == "" {
					value = "(unset)"
				}
				fmt.Fprintln(w, "  "+StyleDim.Render(role+": "+value))
			}
			ok, err := promptYesNo(reader, w, "Assemble anyway and leave the height reference unset?")
			if err != nil {
				return assembly.ConfirmResponse{}, err
			}
			return assembly.ConfirmResponse{Proceed: ok}, nil
		case assembly.ConfirmOverlapMode:
			fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+req.Message)
			mode, err := promptChoice(reader, w, "Resolve the overlap as", []string{"skirt", "grouted"})
			if err != nil {
				return assembly.ConfirmResponse{}, err
			}
			return assembly.ConfirmResponse{Mode: assembly.OverlapMode(mode)}, nil
		}
		return assembly.ConfirmResponse{}, fmt.Errorf("unknown confirmation kind %q", req.Kind)
	}
}

// promptYesNo asks a yes/no question. Empty input means no.
func promptYesNo(r *bufio.Reader, w io.Writer, question string) (bool, error) {
	fmt.Fprintf(w, "%s [y/N]: ", question)
	line, err := r.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read answer: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// promptChoice asks to pick one of the listed values and repeats the
// question until the answer matches one of them.
func promptChoice(r *bufio.Reader, w io.Writer, question string, choices []string) (string, error) {
	for {
		fmt.Fprintf(w, "%s (%s): ", question, strings.Join(choices, "/"))
		line, err := r.ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read answer: %w", err)
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if slices.Contains(choices, answer) {
			return answer, nil
		}
		if err != nil {
			return "", fmt.Errorf("no valid answer, got %q", answer)
		}
		fmt.Fprintln(w, styleIconError.Render(iconError)+" Please answer one of: "+strings.Join(choices, ", "))
	}
}
