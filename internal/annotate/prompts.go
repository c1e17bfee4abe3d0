package annotate

import "fmt"

const translatePrompt = `Terjemahkan kata atau frasa Bahasa Inggris "%s" ke Bahasa Indonesia.
Berikan juga keterangan singkat berupa contoh kalimat sederhana atau sinonimnya dalam Bahasa Indonesia.`

const extractURLPrompt = `Buka dan baca halaman web berikut: %s
Pilih 5 sampai 10 kosakata Bahasa Inggris yang menarik atau penting untuk dipelajari dari isi halaman tersebut.
Untuk setiap kata berikan terjemahan Bahasa Indonesia dan keterangan singkat berupa contoh kalimat sederhana atau sinonimnya dalam Bahasa Indonesia.`

const extractTextPrompt = `Dari teks Bahasa Inggris berikut, pilih 5 sampai 10 kosakata yang menarik atau penting untuk dipelajari.
Untuk setiap kata berikan terjemahan Bahasa Indonesia dan keterangan singkat berupa contoh kalimat sederhana atau sinonimnya dalam Bahasa Indonesia.

Teks:
"""
%s
"""`

// pageContentSuffix carries page text for backends that cannot browse.
const pageContentSuffix = `

Isi halaman:
"""
%s
"""`

func buildTranslatePrompt(word string) string {
	return fmt.Sprintf(translatePrompt, word)
}

func buildExtractPrompt(source string, isURL bool) string {
	if isURL {
		return fmt.Sprintf(extractURLPrompt, source)
	}
	return fmt.Sprintf(extractTextPrompt, source)
}
