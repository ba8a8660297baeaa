package content

import (
	"fmt"
	"strings"

	"hotelgram/models"
)

// safe substitutes a human-readable fallback for missing optional fields.
// Defaulting happens only here, at the prompt layer; persisted records keep
// their nulls.
func safe(value *string, fallback string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return fallback
	}
	return *value
}

func safeList(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

// BuildPrompt assembles the Indonesian-language generation prompt for one
// hotel. The rules forbid the model from inventing concrete numbers, prices,
// links or room types.
func BuildPrompt(h *models.Hotel) string {
	return fmt.Sprintf(`Kamu adalah social media strategist profesional untuk akun Instagram travel & hotel.

Jika ada data yang kosong atau tidak tersedia,
buat konten yang tetap masuk akal dan menarik TANPA mengarang fakta spesifik.

DATA HOTEL:
Nama Hotel: %s
Lokasi: %s
Harga Promo: %s
Harga Normal: %s
Rating: %s (%s)
Jumlah Review: %s
Ringkasan Review: %s
Badge Promo: %s
Fasilitas: %s
Deskripsi Hotel: %s

TUGAS:
1. Buat 1 HOOK yang kuat
2. Buat caption Instagram estetik (2-3 paragraf)
3. Tonality: santai, premium, travel vibes
4. Tekankan value pengalaman menginap
5. Sertakan CTA halus
6. Gunakan emoji secukupnya
7. Tambahkan 8-12 hashtag travel & hotel

ATURAN:
- Jangan menyebut harga numerik
- Jangan menyebut link
- Jangan menyebut tipe kamar
- Output HARUS JSON valid`,
		safe(strPtr(h.Name), "Hotel pilihan favorit traveler"),
		safe(strPtr(h.Location), "lokasi strategis"),
		safe(h.DiscountedPrice, "tersedia promo menarik"),
		safe(h.OriginalPrice, ""),
		safe(h.Rating, "rating tinggi"),
		safe(h.RatingText, ""),
		safe(h.ReviewCount, "banyak ulasan positif"),
		safe(h.ReviewSummary, "disukai banyak tamu"),
		safe(h.DealBadge, "Promo Terbatas"),
		safeList(h.Amenities, "fasilitas lengkap"),
		safe(h.Summary, "hotel nyaman untuk liburan maupun staycation"),
	)
}

func strPtr(s string) *string { return &s }
