package main

import (
	"fmt"
	"log"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/PeterSayer/CottageChooser/config"
	"github.com/PeterSayer/CottageChooser/internal/app/model"
	"github.com/PeterSayer/CottageChooser/internal/app/repository"
	"github.com/PeterSayer/CottageChooser/internal/db"
)

// Exports the whole decision to a spreadsheet: standings with rating
// aggregates, every vote, and every comment. Handy for sharing the
// outcome with people who never joined the app.

func main() {
	outPath := "cottages.xlsx"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	cottageRepo := repository.NewCottageRepository(db.GetDB())
	voteRepo := repository.NewVoteRepository(db.GetDB())
	ratingRepo := repository.NewRatingRepository(db.GetDB())
	commentRepo := repository.NewCommentRepository(db.GetDB())

	cottages, err := cottageRepo.FindAll("")
	if err != nil {
		log.Fatal("Failed to load cottages:", err)
	}
	votes, err := voteRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to load votes:", err)
	}
	stats, err := ratingRepo.StatsByCottage()
	if err != nil {
		log.Fatal("Failed to load rating stats:", err)
	}
	comments, err := commentRepo.FindAll()
	if err != nil {
		log.Fatal("Failed to load comments:", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := writeCottagesSheet(f, cottages, stats); err != nil {
		log.Fatal("Failed to write cottages sheet:", err)
	}
	if err := writeVotesSheet(f, votes, cottages); err != nil {
		log.Fatal("Failed to write votes sheet:", err)
	}
	if err := writeCommentsSheet(f, comments, cottages); err != nil {
		log.Fatal("Failed to write comments sheet:", err)
	}

	if err := f.SaveAs(outPath); err != nil {
		log.Fatal("Failed to save workbook:", err)
	}

	fmt.Printf("Exported %d cottages, %d votes, %d comments to %s\n",
		len(cottages), len(votes), len(comments), outPath)
}

func writeCottagesSheet(f *excelize.File, cottages []model.Cottage, stats map[uint]model.RatingStats) error {
	const sheet = "Cottages"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headers := []interface{}{
		"ID", "Name", "Location", "Price", "Beds", "Dogs allowed",
		"URL", "Submitted by", "Votes", "Ratings", "Average rating",
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, cottage := range cottages {
		st := stats[cottage.ID]
		row := []interface{}{
			cottage.ID,
			cottage.Name,
			cottage.Location,
			cottage.Price,
			cottage.Beds,
			cottage.DogsAllowed,
			cottage.URL,
			cottage.SubmittedBy,
			cottage.Votes,
			st.Count,
			st.Average,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeVotesSheet(f *excelize.File, votes []model.Vote, cottages []model.Cottage) error {
	const sheet = "Votes"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	names := cottageNames(cottages)

	headers := []interface{}{"Vote ID", "Cottage", "Voter", "Voted at"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, vote := range votes {
		row := []interface{}{vote.ID, names[vote.CottageID], vote.UserName, vote.VotedAt}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCommentsSheet(f *excelize.File, comments []model.Comment, cottages []model.Cottage) error {
	const sheet = "Comments"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	names := cottageNames(cottages)

	headers := []interface{}{"Comment ID", "Cottage", "Author", "Text", "Created at"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}

	for i, comment := range comments {
		row := []interface{}{comment.ID, names[comment.CottageID], comment.Author, comment.Text, comment.CreatedAt}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func cottageNames(cottages []model.Cottage) map[uint]string {
	names := make(map[uint]string, len(cottages))
	for _, cottage := range cottages {
		names[cottage.ID] = cottage.Name
	}
	return names
}
