package commands

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lucchesi-sec/synprobe/internal/core"
	"github.com/lucchesi-sec/synprobe/internal/report"
	"github.com/lucchesi-sec/synprobe/pkg/config"
	"github.com/lucchesi-sec/synprobe/pkg/errors"
	"github.com/lucchesi-sec/synprobe/pkg/exporter"
	"github.com/lucchesi-sec/synprobe/pkg/parser"
	"github.com/lucchesi-sec/synprobe/pkg/profiles"
	"github.com/lucchesi-sec/synprobe/pkg/targets"
)

var scanCmd = &cobra.Command{
	Use:   "scan [targets...]",
	Short: "Probe ports on one or more target hosts",
	Long: `scan sends SYN, NULL, ACK, FIN, XMAS, and UDP probes directly over raw
sockets to the given targets and reports the classified status of each
host:port pair once every probe has been answered or timed out.

Targets are literal IPv4 addresses or hostnames; CIDR ranges are not
supported. Read additional targets from a file with --targets-file, one
per line.`,
	Example: `  # SYN scan the top 1024 ports on a single host
  synprobe scan 192.168.1.1

  # Scan specific ports with multiple techniques
  synprobe scan 192.168.1.1 --ports 22,80,443 --scans syn,ack,udp

  # Quick profile across several hosts
  synprobe scan 10.0.0.1 10.0.0.2 --profile quick

  # Export results as a single JSON object with scan metadata
  synprobe scan target.com --output json --json-object > results.json

  # Validate inputs without sending a single packet
  synprobe scan target.com --ports 1-1024 --dry-run`,
	Args: cobra.ArbitraryArgs,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringP("ports", "p", "1-1024", "ports to scan (e.g. '80,443' or '1-1024')")
	scanCmd.Flags().String("scans", "syn", "comma-separated scan techniques (syn,null,ack,fin,xmas,udp)")
	scanCmd.Flags().StringP("profile", "P", "", "named port-range preset: quick, web, database, full (overrides --ports)")
	scanCmd.Flags().IntP("rate", "r", 1000, "packets per second")
	scanCmd.Flags().IntP("timeout", "t", 200, "per-probe reply timeout in milliseconds")
	scanCmd.Flags().StringP("output", "o", "table", "output format: table, json, csv")
	scanCmd.Flags().Bool("json-array", false, "with --output json, write a single JSON array instead of NDJSON")
	scanCmd.Flags().Bool("json-object", false, "with --output json, write one object with scan_info and results[]")
	scanCmd.Flags().String("theme", "default", "table theme: default, dracula, monokai")
	scanCmd.Flags().String("targets-file", "", "read additional targets from this file, one per line")
	scanCmd.Flags().String("source-ip", "", "source IPv4 address to probe from (default: auto-discovered)")
	scanCmd.Flags().Bool("dry-run", false, "validate targets, ports, and scans without sending any packet")

	_ = viper.BindPFlag("ports", scanCmd.Flags().Lookup("ports"))
	_ = viper.BindPFlag("scans", scanCmd.Flags().Lookup("scans"))
	_ = viper.BindPFlag("rate", scanCmd.Flags().Lookup("rate"))
	_ = viper.BindPFlag("timeout_ms", scanCmd.Flags().Lookup("timeout"))
	_ = viper.BindPFlag("output", scanCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("theme", scanCmd.Flags().Lookup("theme"))
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.ConfigLoadError(viper.ConfigFileUsed(), err)
	}

	profile, _ := cmd.Flags().GetString("profile")
	var ports []uint16
	if profile != "" {
		ports = profiles.GetProfile(profile)
		if ports == nil {
			return fmt.Errorf("unknown profile %q; available: %v", profile, profiles.ListProfiles())
		}
	} else {
		ports, err = parser.ParsePorts(cfg.Ports)
		if err != nil {
			return errors.InvalidPortRangeError(cfg.Ports, err)
		}
	}

	scans, err := parser.ParseScans(cfg.Scans)
	if err != nil {
		return errors.InvalidScanTokenError(cfg.Scans)
	}

	targetsFile, _ := cmd.Flags().GetString("targets-file")
	hosts, err := targets.Resolve(args, targetsFile, log.WithField("component", "targets"))
	if err != nil {
		return errors.NoValidTargetError(err)
	}

	sourceIPFlag, _ := cmd.Flags().GetString("source-ip")
	sourceAddr, err := resolveSourceAddr(sourceIPFlag)
	if err != nil {
		return errors.SourceDiscoveryError(err)
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if dryRun {
		printDryRun(hosts, ports, scans, sourceAddr, cfg)
		return nil
	}

	gen, err := core.NewGenerator(hosts, ports, scans, sourceAddr)
	if err != nil {
		return err
	}

	iface, err := core.InterfaceForAddr(sourceAddr)
	if err != nil {
		return errors.SourceDiscoveryError(err)
	}

	sender, err := core.NewSendSocket()
	if err != nil {
		return errors.RawSocketError("open send socket", err)
	}
	defer sender.Close()

	receiver, err := core.NewRecvSocket(iface)
	if err != nil {
		return errors.RawSocketError("open receive socket", err)
	}
	defer receiver.Close()

	engine := &core.Engine{
		Sender:   sender,
		Receiver: receiver,
		Waiter:   core.NewFDWaiter(receiver.FD()),
		Store:    core.NewStore(cfg.GetTimeout()),
		Delay:    cfg.GetDelay(),
		Log:      log.WithField("component", "engine"),
	}

	startedAt := time.Now()
	reports, err := engine.Run(gen)
	finishedAt := time.Now()
	if err != nil {
		return errors.RawSocketError("emit probe", err)
	}

	rows := report.Rows(reports)
	return writeResults(cmd, cfg, rows, hosts, ports, startedAt, finishedAt)
}

func resolveSourceAddr(explicit string) (net.IP, error) {
	if explicit != "" {
		ip := net.ParseIP(explicit)
		if ip == nil || ip.To4() == nil {
			return nil, fmt.Errorf("%q is not a valid IPv4 address", explicit)
		}
		return ip.To4(), nil
	}
	return core.NewDefaultSourceDiscoverer().DiscoverSourceIP()
}

func writeResults(cmd *cobra.Command, cfg *config.Config, rows []report.Row, hosts []net.IP, ports []uint16, startedAt, finishedAt time.Time) error {
	jsonArray, _ := cmd.Flags().GetBool("json-array")
	jsonObject, _ := cmd.Flags().GetBool("json-object")

	switch cfg.Output {
	case "json":
		var exp *exporter.JSONExporter
		switch {
		case jsonObject:
			exp = exporter.NewJSONExporterObjectWithMetadata(os.Stdout, exporter.ScanMetadata{
				Targets:    hostStrings(hosts),
				TotalPorts: len(ports),
				Rate:       cfg.Rate,
				StartTime:  startedAt,
				EndTime:    finishedAt,
			})
		case jsonArray:
			exp = exporter.NewJSONExporterArray(os.Stdout)
		default:
			exp = exporter.NewJSONExporter(os.Stdout)
		}
		defer exp.Close()
		return exp.Export(rows)

	case "csv":
		exp := exporter.NewCSVExporter(os.Stdout)
		defer exp.Close()
		return exp.Export(rows)

	default:
		printer := report.NewPrinter(cfg.Theme, cfg.NoColor)
		printer.Print(os.Stdout, rows)
		return nil
	}
}

func hostStrings(hosts []net.IP) []string {
	out := make([]string, len(hosts))
	for i, h := range hosts {
		out[i] = h.String()
	}
	return out
}

func printDryRun(hosts []net.IP, ports []uint16, scans []core.ScanTechnique, sourceAddr net.IP, cfg *config.Config) {
	fmt.Println("=== DRY RUN ===")
	fmt.Printf("Source:   %s\n", sourceAddr)
	fmt.Printf("Targets:  %d host(s): %v\n", len(hosts), hostStrings(hosts))
	fmt.Printf("Ports:    %d port(s)", len(ports))
	if len(ports) <= 10 {
		fmt.Printf(" %v", ports)
	}
	fmt.Println()
	scanNames := make([]string, len(scans))
	for i, s := range scans {
		scanNames[i] = s.String()
	}
	fmt.Printf("Scans:    %v\n", scanNames)
	fmt.Printf("Rate:     %d pps\n", cfg.Rate)
	fmt.Printf("Timeout:  %dms\n", cfg.TimeoutMs)
	fmt.Printf("Output:   %s\n", cfg.Output)
	fmt.Println("\nNo packets sent. Remove --dry-run to execute.")
}
