package cmd

import (
	"fmt"
	"math/big"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/vesting/app"
	"github.com/kilianp07/vesting/config"
	"github.com/kilianp07/vesting/core/vesting"
	"github.com/kilianp07/vesting/infra/logger"
)

var (
	grantBeneficiary string
	grantAmount      string
	grantCliffAfter  time.Duration
	grantCliffAmount string
	grantDuration    time.Duration
	grantInterval    time.Duration
	grantRevocable   bool
)

var grantCmd = &cobra.Command{
	Use:   "grant",
	Short: "Create a vesting schedule from the command line",
	RunE:  grantSchedule,
}

func init() {
	grantCmd.Flags().StringVar(&grantBeneficiary, "beneficiary", "", "beneficiary identity")
	grantCmd.Flags().StringVar(&grantAmount, "amount", "", "total allocation, decimal")
	grantCmd.Flags().DurationVar(&grantCliffAfter, "cliff-after", 0, "cliff delay from now")
	grantCmd.Flags().StringVar(&grantCliffAmount, "cliff-amount", "0", "amount unlocked at the cliff, decimal")
	grantCmd.Flags().DurationVar(&grantDuration, "duration", 0, "total vesting span")
	grantCmd.Flags().DurationVar(&grantInterval, "interval", 0, "release granularity after the cliff")
	grantCmd.Flags().BoolVar(&grantRevocable, "revocable", false, "allow the administrator to revoke")
	rootCmd.AddCommand(grantCmd)
}

func grantSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("grant-command").Errorf("service close: %v", err)
		}
	}()

	total, ok := new(big.Int).SetString(grantAmount, 10)
	if !ok {
		return fmt.Errorf("amount is not a decimal integer: %q", grantAmount)
	}
	cliffAmount, ok := new(big.Int).SetString(grantCliffAmount, 10)
	if !ok {
		return fmt.Errorf("cliff-amount is not a decimal integer: %q", grantCliffAmount)
	}

	admin := cfg.Vesting.Administrators[0]
	grant := vesting.Grant{
		Beneficiary: grantBeneficiary,
		TotalAmount: total,
		CliffTime:   time.Now().Add(grantCliffAfter),
		CliffAmount: cliffAmount,
		Duration:    grantDuration,
		Interval:    grantInterval,
		Revocable:   grantRevocable,
	}
	if err := svc.Vesting.Vest(admin, grant); err != nil {
		return fmt.Errorf("vest: %w", err)
	}

	sched, err := svc.Vesting.Schedule(grantBeneficiary)
	if err != nil {
		return err
	}
	logg := logger.New("grant-command")
	logg.Infof("schedule created for %s: total %s, cliff %s at %s, full vest at %s",
		sched.Beneficiary, sched.TotalAmount, sched.CliffAmount,
		sched.CliffTime.Format(time.RFC3339), sched.End().Format(time.RFC3339))
	return nil
}
