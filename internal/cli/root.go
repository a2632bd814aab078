package cli

import "fmt"

func Run(args []string) error {
	if len(args) == 0 {
		printRootUsage()
		return nil
	}

	var err error
	switch args[0] {
	case "run":
		err = runRun(args[1:])
	case "resume":
		err = runResume(args[1:])
	case "jobs":
		err = runJobs(args[1:])
	case "cancel":
		err = runCancel(args[1:])
	case "results":
		err = runResults(args[1:])
	case "download":
		err = runDownload(args[1:])
	case "delete":
		err = runDelete(args[1:])
	case "settings":
		err = runSettings(args[1:])
	case "help", "-h", "--help":
		printRootUsage()
		return nil
	default:
		printRootUsage()
		return fmt.Errorf("unknown command %q", args[0])
	}

	return err
}

func printRootUsage() {
	fmt.Println("agent-finder: bulk listing-agent lookup client")
	fmt.Println()
	fmt.Println("Quick Start:")
	fmt.Println("  agent-finder run --file addresses.csv")
	fmt.Println("  agent-finder jobs")
	fmt.Println("  agent-finder resume --last")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  run       submit an address file and watch live progress")
	fmt.Println("  resume    re-attach to a job still running server-side")
	fmt.Println("  jobs      list job history from the server")
	fmt.Println("  cancel    ask the server to stop a job (best effort)")
	fmt.Println("  results   fetch the results document for a job")
	fmt.Println("  download  save the server's export file for a job")
	fmt.Println("  delete    delete a job from the server history")
	fmt.Println("  settings  show/update client settings")
	fmt.Println()
	fmt.Println("Notes:")
	fmt.Println("  - Use --json on commands for machine-readable output")
	fmt.Println("  - Detaching from a running job (q) leaves it running; resume re-attaches,")
	fmt.Println("    but counters and ETA restart from the re-attach point")
}
