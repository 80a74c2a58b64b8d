package forms

// SeedTemplates returns the four built-in HSE report templates installed on
// first run. Ids and field rosters are fixed for compatibility with
// collections written by earlier releases; do not reorder or rename.
func SeedTemplates(now int64) []FormTemplate {
	return []FormTemplate{
		{
			ID:          "tpl-inspection",
			Title:       "Inspection Form",
			Description: "Laporan inspeksi rutin area kerja dan temuan K3.",
			CreatedAt:   now,
			Fields: []FormField{
				{ID: "i1", Label: "Tanggal Inspeksi", Type: FieldDate, Required: true},
				{ID: "i2", Label: "Nama Inspektor", Type: FieldText, Required: true},
				{ID: "i3", Label: "Lokasi / Area", Type: FieldText, Required: true},
				{ID: "i4", Label: "Jenis Temuan", Type: FieldSelect, Required: true, Options: []string{"Unsafe Act", "Unsafe Condition"}},
				{ID: "i5", Label: "Keterangan", Type: FieldTextarea, Required: true},
				{ID: "i6", Label: "Follow-up Action", Type: FieldTextarea, Required: true},
				{ID: "i7", Label: "Status", Type: FieldSelect, Required: true, Options: []string{"Open", "Close"}},
				{ID: "i8", Label: "Photo Upload", Type: FieldFile, Required: false},
			},
		},
		{
			ID:          "tpl-briefing",
			Title:       "Safety Briefing Log",
			Description: "Catatan pelaksanaan briefing keselamatan harian atau mingguan.",
			CreatedAt:   now - 1000,
			Fields: []FormField{
				{ID: "b1", Label: "Tanggal", Type: FieldDate, Required: true},
				{ID: "b2", Label: "Nama Pembicara", Type: FieldText, Required: true},
				{ID: "b3", Label: "Lokasi / Area", Type: FieldText, Required: true},
				{ID: "b4", Label: "Topik Briefing", Type: FieldText, Required: true},
				{ID: "b5", Label: "Keterangan", Type: FieldTextarea, Required: false},
				{ID: "b6", Label: "Photo Upload", Type: FieldFile, Required: false},
			},
		},
		{
			ID:          "tpl-incident",
			Title:       "Incident Report",
			Description: "Laporan detail kejadian kecelakaan kerja atau nyaris celaka (near miss).",
			CreatedAt:   now - 2000,
			Fields: []FormField{
				{ID: "r1", Label: "Tanggal Kejadian", Type: FieldDate, Required: true},
				{ID: "r2", Label: "Waktu Kejadian", Type: FieldText, Required: true, Placeholder: "HH:mm"},
				{ID: "r3", Label: "Lokasi Kejadian", Type: FieldText, Required: true},
				{ID: "r4", Label: "Nama Pelapor", Type: FieldText, Required: true},
				{ID: "r5", Label: "Nama Pekerja Terlibat", Type: FieldText, Required: true},
				{ID: "r6", Label: "Jenis Kejadian", Type: FieldSelect, Required: true, Options: []string{"Near Miss", "Fire Case", "Property Damage", "First Aid", "Medical Treatment", "Restricted Work Case", "Lost Time Injury", "Fatality"}},
				{ID: "r7", Label: "Kronologi Kejadian", Type: FieldTextarea, Required: true},
				{ID: "r8", Label: "Faktor Penyebab", Type: FieldMultiCheckbox, Required: true, Options: []string{"Faktor Personil", "Faktor Alat", "Faktor Metode/Prosedur", "Faktor Lingkungan"}},
				{ID: "r9", Label: "Keterangan", Type: FieldTextarea, Required: false},
				{ID: "r10", Label: "Tindakan Perbaikan", Type: FieldTextarea, Required: true},
				{ID: "r11", Label: "Tindakan Pencegahan", Type: FieldTextarea, Required: true},
				{ID: "r12", Label: "Photo Upload", Type: FieldFile, Required: false},
			},
		},
		{
			ID:          "tpl-punishment",
			Title:       "Safety Punishment",
			Description: "Catatan pelanggaran aturan K3 dan pemberian poin sanksi.",
			CreatedAt:   now - 3000,
			Fields: []FormField{
				{ID: "p7", Label: "Tanggal Pelaporan", Type: FieldDate, Required: true},
				{ID: "p1", Label: "Nama Pelapor", Type: FieldText, Required: true},
				{ID: "p2", Label: "Nama Pelanggar", Type: FieldText, Required: true},
				{ID: "p3", Label: "Jabatan Pelanggar", Type: FieldText, Required: true},
				{ID: "p4", Label: "Jenis Pelanggaran", Type: FieldText, Required: true},
				{ID: "p5", Label: "Keterangan", Type: FieldTextarea, Required: true},
				{ID: "p6", Label: "Poin Pelanggaran", Type: FieldNumber, Required: true},
			},
		},
	}
}
