package ocr

func checkImage(op string, image []byte) error {
	if len(image) == 0 {
		return WrapOCRError(op, ErrEmptyImage, "")
	}
	if len(image) > MaxImageSizeBytes {
		return WrapOCRError(op, ErrImageTooLarge, "")
	}
	return nil
}
