//go:build ignore

// This program generates sample input files for trying out contentkit:
// a content sheet document and a work-in-progress workbook.
//
//	go run testdata/generate_fixtures.go
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/klytics/contentkit/internal/formats/docx"
	"github.com/klytics/contentkit/internal/formats/xlsx"
)

func main() {
	if err := generateDocx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating sample.docx: %v\n", err)
		os.Exit(1)
	}

	if err := generateXlsx(); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating WIP workbook: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func plain(text string) docx.Paragraph {
	return docx.Paragraph{Style: "Normal", Runs: []docx.Run{{Text: text}}}
}

func field(name string, value ...docx.Paragraph) docx.Row {
	return docx.Row{Cells: []docx.Cell{
		{Paragraphs: []docx.Paragraph{plain(name)}},
		{Paragraphs: value},
	}}
}

func generateDocx() error {
	doc := &docx.Document{
		Metadata: docx.Metadata{Title: "Japan de Luxe, Raum 1", Creator: "Redaktion"},
		Tables: []docx.Table{
			{Rows: []docx.Row{
				field("Text-Kennnummer", plain("A_1")),
				field("Laufnummer", plain("1")),
				field("Titel", plain("Die große Welle")),
				field("Untertitel", docx.Paragraph{Style: "Normal", Runs: []docx.Run{
					{Text: "aus der Serie "},
					{Text: "36 Ansichten des Berges Fuji", Italic: true},
				}}),
				field("Fliesstext",
					plain("Der Holzschnitt entstand im XIXe siècle und misst 25 cm × 37 cm."),
					docx.Paragraph{Style: "List Bullet", Runs: []docx.Run{{Text: "Farbholzschnitt"}}},
					docx.Paragraph{Style: "List Bullet", Runs: []docx.Run{{Text: "Preußischblau, z. B. im Himmel"}}},
					plain("Auflage: ca. 5000 Abzüge"),
				),
				field("Fliesstext", plain("Fortsetzung im 2nd Raum.")),
			}},
			{Rows: []docx.Row{
				field("Text-Kennnummer", plain("C_1_A_01_2018.1102")),
				field("Laufnummer", plain("2")),
				field("Titel", plain("Fuji bei klarem Wetter")),
				field("Fliesstext",
					plain("« Le Fuji rouge » : eine Fläche von 10 km2."),
					docx.Paragraph{Style: "List Number", Runs: []docx.Run{{Text: "Morgenrot"}}},
					docx.Paragraph{Style: "List Number", Runs: []docx.Run{{Text: "Sommer"}}},
				),
				field("Creditline", docx.Paragraph{Style: "Normal", Runs: []docx.Run{
					{Text: "Schenkung 2018"},
					{Text: "1", VertAlign: "superscript"},
				}}),
			}},
		},
	}

	if err := os.MkdirAll("textSources", 0755); err != nil {
		return err
	}
	return docx.WriteFile(doc, filepath.Join("textSources", "sample.docx"))
}

func content(name, lang string) xlsx.Sheet {
	return xlsx.Sheet{
		Name: name,
		Rows: [][]string{
			{"Text-Kennnummer", "Laufnummer", "Titel", "Untertitel", "Urheber*in", "Datierung", "Material/Technik", "Creditline", "Fliesstext"},
			{"A_1", "1", "Die große Welle (" + lang + ")", "Serie", "Katsushika Hokusai", "1831", "Farbholzschnitt", "", "Text " + lang},
			{"C_1_A_01_2018.1102", "2", "Fuji (" + lang + ")", "", "Katsushika Hokusai", "1831", "Farbholzschnitt", "Schenkung", "Kind " + lang},
			{"C_1_A_02_2019.389", "3", "Gewitter (" + lang + ")", "", "Katsushika Hokusai", "1831", "Farbholzschnitt", "", "Kind 2 " + lang},
		},
	}
}

func generateXlsx() error {
	wb := &xlsx.Workbook{
		Sheets: []xlsx.Sheet{
			{
				Name: "WIP Tracks",
				Rows: [][]string{
					{"Track", "Text-Kennnummer", "Raum"},
					{"1", "A_1", "1"},
					{"2", "", "1"},
					{"3", "B_1", "1"},
				},
			},
			content("DE Content", "de"),
			content("FR Content", "fr"),
			content("EN Content", "en"),
		},
	}

	if err := os.MkdirAll("WIP", 0755); err != nil {
		return err
	}
	return xlsx.WriteFile(wb, filepath.Join("WIP", "WIP--Japan_de_Luxe_Audio-Cult_INHALTE.xlsx"), xlsx.WriteOptions{BoldHeader: true})
}
