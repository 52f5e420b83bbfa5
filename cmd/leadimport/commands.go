package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/xavierca1/oneconsig-crm/internal/config"
	"github.com/xavierca1/oneconsig-crm/internal/entity"
	"github.com/xavierca1/oneconsig-crm/internal/infra/database"
	"github.com/xavierca1/oneconsig-crm/internal/infra/http/middleware"
	"github.com/xavierca1/oneconsig-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/oneconsig-crm/internal/usecase"
)

type output struct {
	Command    string `json:"command"`
	File       string `json:"file,omitempty"`
	DurationMS int64  `json:"duration_ms"`
	Result     any    `json:"result"`
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readFile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("erro ao ler %s: %w", path, err)
	}
	return string(raw), nil
}

type checkResult struct {
	Parsed int           `json:"parsed"`
	Sample []entity.Lead `json:"sample"`
}

func newCheckCmd() *cobra.Command {
	var (
		file   string
		sample int
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Lê o CSV e mostra o que seria importado, sem tocar no banco",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readFile(file)
			if err != nil {
				return err
			}

			start := time.Now()
			leads, err := usecase.ParseForImport(text)
			if err != nil {
				return err
			}
			if sample > len(leads) {
				sample = len(leads)
			}

			return writeJSON(cmd.OutOrStdout(), output{
				Command:    "check",
				File:       file,
				DurationMS: time.Since(start).Milliseconds(),
				Result:     checkResult{Parsed: len(leads), Sample: leads[:sample]},
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Caminho do CSV (obrigatório)")
	cmd.Flags().IntVar(&sample, "sample", 3, "Quantos leads mostrar")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		file      string
		owner     string
		batchSize int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Importa o CSV em lotes, atribuindo os leads ao atendente informado",
		RunE: func(cmd *cobra.Command, args []string) error {
			if batchSize > usecase.MaxLeadBatchSize {
				return fmt.Errorf("--batch-size deve ser no máximo %d", usecase.MaxLeadBatchSize)
			}

			text, err := readFile(file)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL é obrigatória")
			}

			db, err := database.NewDBConnection(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("falha ao conectar no Postgres: %w", err)
			}
			defer db.Close()

			upsert := usecase.NewBulkUpsertLeadsUseCase(database.NewLeadRepository(db), middleware.Recorder{})
			if batchSize > 0 {
				upsert.BatchSize = batchSize
			}
			importUC := usecase.NewImportLeadsUseCase(upsert)

			actor := &entity.Actor{ID: owner, Nome: "leadimport", Role: entity.RoleAdmin}
			stderr := cmd.ErrOrStderr()
			progress := usecase.ProgressFunc(func(percent int) {
				fmt.Fprintf(stderr, "\rimportando... %3d%%", percent)
			})

			start := time.Now()
			out, err := importUC.Execute(cmd.Context(), actor, text, progress)
			fmt.Fprintln(stderr)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), output{
				Command:    "run",
				File:       file,
				DurationMS: time.Since(start).Milliseconds(),
				Result:     out,
			})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Caminho do CSV (obrigatório)")
	cmd.Flags().StringVar(&owner, "owner", entity.AdminMasterID, "user_id que fica dono dos leads")
	cmd.Flags().IntVar(&batchSize, "batch-size", usecase.LeadBatchSize, "Leads por lote")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

type leadFinder interface {
	FindByID(ctx context.Context, id string) (*entity.Lead, error)
}

type kommoLeadCreator interface {
	CreateLead(ctx context.Context, input kommo.HandoffInput) (int, error)
}

type handoffResult struct {
	LeadID  string `json:"lead_id"`
	KommoID int    `json:"kommo_id"`
}

// handoff reenvia ao Kommo um lead já aprovado. Com force, envia qualquer status.
func handoff(ctx context.Context, leads leadFinder, crm kommoLeadCreator, leadID string, force bool) (*handoffResult, error) {
	lead, err := leads.FindByID(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status != entity.StatusAprovado && !force {
		return nil, fmt.Errorf("lead %s está com status %q; use --force para enviar mesmo assim", leadID, lead.Status)
	}

	id, err := crm.CreateLead(ctx, kommo.InputFromLead(lead))
	if err != nil {
		return nil, fmt.Errorf("erro ao enviar lead ao Kommo: %w", err)
	}
	return &handoffResult{LeadID: leadID, KommoID: id}, nil
}

func newHandoffCmd() *cobra.Command {
	var (
		leadID string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "handoff",
		Short: "Reenvia um lead aprovado para o funil do Kommo",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.Kommo.Enabled() {
				return fmt.Errorf("KOMMO_API_TOKEN e KOMMO_BASE_URL são obrigatórios")
			}
			if cfg.DatabaseURL == "" {
				return fmt.Errorf("DATABASE_URL é obrigatória")
			}

			db, err := database.NewDBConnection(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("falha ao conectar no Postgres: %w", err)
			}
			defer db.Close()

			start := time.Now()
			client := kommo.NewClient(cfg.Kommo.APIToken, cfg.Kommo.BaseURL, cfg.Kommo.StatusID)
			res, err := handoff(cmd.Context(), database.NewLeadRepository(db), client, leadID, force)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), output{
				Command:    "handoff",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     res,
			})
		},
	}

	cmd.Flags().StringVar(&leadID, "lead-id", "", "ID do lead (obrigatório)")
	cmd.Flags().BoolVar(&force, "force", false, "Envia mesmo se o lead não estiver aprovado")
	_ = cmd.MarkFlagRequired("lead-id")
	return cmd
}
