// file: internals/features/character_logs/service/errors.go
package service

import (
	"fmt"
	"sort"
	"strings"
)

// Taksonomi error workflow. Semuanya terminal untuk operasi ybs:
// tidak ada partial write, tidak ada retry otomatis di dalam service.

// ValidationError: ada field ActivityRecord yang kosong/tidak valid.
// Fields memuat SEMUA field bermasalah sekaligus.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return fmt.Sprintf("validasi gagal: %s", strings.Join(names, ", "))
}

// ForbiddenError: aktor tidak berhak atas siswa/jurnal target.
// Pesannya seragam, tidak membocorkan apakah jurnal target ada.
type ForbiddenError struct {
	Message string
}

func (e *ForbiddenError) Error() string {
	if e.Message == "" {
		return "akses ditolak"
	}
	return e.Message
}

// ConflictError: operasi menabrak precondition status (submit ganda,
// approve pada status bukan draft, dst). CurrentStatus dikirim balik
// supaya klien bisa refresh view-nya.
type ConflictError struct {
	Message       string
	CurrentStatus string
}

func (e *ConflictError) Error() string { return e.Message }

// NotFoundError: jurnal (siswa, tanggal) belum ada padahal precondition
// mengharuskan ada (mis. submit realisasi sebelum rencana).
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message == "" {
		return "jurnal tidak ditemukan"
	}
	return e.Message
}

var errForbiddenUniform = &ForbiddenError{Message: "Anda tidak berhak mengakses jurnal ini"}
