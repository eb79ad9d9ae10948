package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/vsinha/mrpatp/pkg/application/dto"
	"github.com/vsinha/mrpatp/pkg/domain/entities"
)

const dateLayout = "2006-01-02"

// Format selects how results are rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// WriteRun renders a planning run result
func WriteRun(w io.Writer, result dto.PlanningRunResult, format Format) error {
	switch format {
	case FormatText:
		return writeRunText(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		if result.Report == nil {
			return fmt.Errorf("run %s has no report: %s", result.RunID, result.ErrorMessage)
		}
		return writeSuggestionsCSV(w, result.Report.Suggestions)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteRequirements renders exploded requirement nodes
func WriteRequirements(w io.Writer, nodes []entities.RequirementNode, format Format) error {
	switch format {
	case FormatText:
		fmt.Fprintf(w, "%-20s %-6s %-14s %-12s\n", "Material", "Level", "Required Qty", "Need Date")
		fmt.Fprintf(w, "%-20s %-6s %-14s %-12s\n", "--------------------", "------", "--------------", "------------")
		for _, n := range nodes {
			fmt.Fprintf(w, "%-20s %-6d %-14s %-12s\n", n.Material, n.Level, n.Quantity.String(), formatDate(n.NeedDate))
		}
		return nil
	case FormatJSON:
		return writeJSON(w, nodes)
	case FormatCSV:
		rows := [][]string{{"material_code", "level", "required_qty", "need_date"}}
		for _, n := range nodes {
			rows = append(rows, []string{string(n.Material), strconv.Itoa(n.Level), n.Quantity.String(), formatDate(n.NeedDate)})
		}
		return writeCSV(w, rows)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteATP renders an available-to-promise result
func WriteATP(w io.Writer, result entities.ATPResult, format Format) error {
	switch format {
	case FormatText:
		writeATPText(w, result)
		return nil
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, [][]string{
			{"material_code", "plant_code", "requested_qty", "atp_qty", "can_fulfill", "promised_date"},
			{string(result.Material), result.Plant, result.RequestedQty.String(), result.ATPQty.String(),
				strconv.FormatBool(result.CanFulfill), formatPromise(result.PromisedDate)},
		})
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

// WriteCTP renders a capable-to-promise result
func WriteCTP(w io.Writer, result entities.CTPResult, format Format) error {
	switch format {
	case FormatText:
		writeATPText(w, result.ATP)
		fmt.Fprintf(w, "Workstation:        %s\n", result.Workstation)
		fmt.Fprintf(w, "Available Capacity: %s\n", result.AvailableCapacity.String())
		fmt.Fprintf(w, "Constraint:         %s\n", result.Constraint)
		fmt.Fprintf(w, "Can Fulfill:        %t\n", result.CanFulfill)
		return nil
	case FormatJSON:
		return writeJSON(w, result)
	case FormatCSV:
		return writeCSV(w, [][]string{
			{"material_code", "plant_code", "workstation_code", "requested_qty", "atp_qty", "available_capacity", "constraint_type", "can_fulfill"},
			{string(result.Material), result.Plant, result.Workstation, result.RequestedQty.String(), result.ATP.ATPQty.String(),
				result.AvailableCapacity.String(), string(result.Constraint), strconv.FormatBool(result.CanFulfill)},
		})
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func writeRunText(w io.Writer, result dto.PlanningRunResult) error {
	fmt.Fprintf(w, "📊 Planning Run %s\n", result.RunID)
	fmt.Fprintf(w, "======================\n\n")
	fmt.Fprintf(w, "Status:       %s\n", result.Status)
	fmt.Fprintf(w, "Duration:     %dms\n", result.DurationMs)

	if !result.Succeeded() {
		fmt.Fprintf(w, "Error:        %s\n", result.ErrorMessage)
		return nil
	}

	fmt.Fprintf(w, "Requirements: %d\n", result.RequirementCount)
	fmt.Fprintf(w, "Shortages:    %d\n", result.ShortageCount)
	fmt.Fprintf(w, "Suggestions:  %d\n\n", result.SuggestionCount)

	report := result.Report
	if report == nil {
		return nil
	}

	if len(report.NetRequirements) > 0 {
		fmt.Fprintf(w, "📋 Net Requirements:\n")
		fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %-12s %-12s\n",
			"Material", "Gross", "Available", "Safety", "Net", "Required")
		fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %-12s %-12s\n",
			"--------------------", "------------", "------------", "------------", "------------", "------------")
		for _, nr := range report.NetRequirements {
			fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %-12s %-12s\n",
				nr.Material,
				nr.GrossRequirement.String(),
				nr.AvailableQty.String(),
				nr.SafetyStock.String(),
				nr.NetRequirement.String(),
				formatDate(nr.RequiredDate))
		}
		fmt.Fprintln(w)
	}

	if len(report.Kit.Shortages) > 0 {
		fmt.Fprintf(w, "⚠️  Shortages (fill rate %.1f%%):\n", report.Kit.OverallFillRate)
		fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %-10s\n",
			"Material", "Required", "Available", "Short", "Urgency")
		fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %-10s\n",
			"--------------------", "------------", "------------", "------------", "----------")
		for _, s := range report.Kit.Shortages {
			fmt.Fprintf(w, "%-20s %-12s %-12s %-12s %-10s\n",
				s.Material,
				s.RequiredQty.String(),
				s.AvailableQty.String(),
				s.ShortageQty.String(),
				s.Urgency)
		}
		fmt.Fprintln(w)
	}

	if len(report.Suggestions) > 0 {
		fmt.Fprintf(w, "🛒 Procurement Suggestions:\n")
		fmt.Fprintf(w, "%-20s %-10s %-12s %-14s %-12s %-10s\n",
			"Material", "Qty", "Order By", "Supplier", "Est. Cost", "Urgency")
		fmt.Fprintf(w, "%-20s %-10s %-12s %-14s %-12s %-10s\n",
			"--------------------", "----------", "------------", "--------------", "------------", "----------")
		for _, s := range report.Suggestions {
			fmt.Fprintf(w, "%-20s %-10s %-12s %-14s %-12s %-10s\n",
				s.Material,
				s.SuggestedQty.String(),
				formatDate(s.SuggestedDate),
				s.SupplierCode,
				s.EstimatedCost.StringFixed(2),
				s.Urgency)
		}
		fmt.Fprintln(w)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintf(w, "Warnings:\n")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
	return nil
}

func writeATPText(w io.Writer, result entities.ATPResult) {
	fmt.Fprintf(w, "Material:           %s @ %s\n", result.Material, result.Plant)
	fmt.Fprintf(w, "Requested:          %s on %s\n", result.RequestedQty.String(), formatDate(result.RequestedDate))
	fmt.Fprintf(w, "On Hand Available:  %s\n", result.AvailableQty.String())
	fmt.Fprintf(w, "In Transit:         %s\n", result.InTransitQty.String())
	fmt.Fprintf(w, "Allocated:          %s\n", result.AllocatedQty.String())
	fmt.Fprintf(w, "Reserved:           %s\n", result.ReservedQty.String())
	fmt.Fprintf(w, "ATP:                %s\n", result.ATPQty.String())
	fmt.Fprintf(w, "Promised Date:      %s\n", formatPromise(result.PromisedDate))
}

func writeSuggestionsCSV(w io.Writer, suggestions []entities.ProcurementSuggestion) error {
	rows := [][]string{{
		"material_code", "suggested_qty", "suggested_date", "supplier_code",
		"unit_price", "estimated_cost", "urgency_level", "trace_id",
	}}
	for _, s := range suggestions {
		rows = append(rows, []string{
			string(s.Material),
			s.SuggestedQty.String(),
			formatDate(s.SuggestedDate),
			s.SupplierCode,
			s.UnitPrice.String(),
			s.EstimatedCost.String(),
			string(s.Urgency),
			s.TraceID,
		})
	}
	return writeCSV(w, rows)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(dateLayout)
}

func formatPromise(t *time.Time) string {
	if t == nil {
		return "none within horizon"
	}
	return formatDate(*t)
}
