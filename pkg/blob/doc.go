// Package blob uploads card attachments to object storage.
//
// The service layer depends on the Uploader interface; S3Client is the
// production implementation and works against AWS S3 or any S3-compatible
// endpoint such as MinIO. Keys are content-addressed under the card id so
// re-uploading the same file is a no-op for storage.
package blob
