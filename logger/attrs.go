package logger

import (
	"log/slog"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func Err(err error) slog.Attr {
	return slog.Any("err", err)
}

func NoteID(id primitive.ObjectID) slog.Attr {
	return slog.String("note_id", id.Hex())
}

func UserID(id primitive.ObjectID) slog.Attr {
	return slog.String("user_id", id.Hex())
}
